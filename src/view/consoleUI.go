package view

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"toruslife/src/grid"
	"toruslife/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

type ConsoleUI struct {
	u          universe.Universe
	g          *gocui.Gui
	k          []keyBindings
	liveFiller string
	deadFiller string
}

var errTerminalTooNarrow = errors.New("terminal width is too small")

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateManual:   aurora.Colorize(universe.RunningStateManual.String(), aurora.BlueFg).String(),
		universe.RunningStateStep:     universe.RunningStateStep.String(),
		universe.RunningStateRun:      aurora.Colorize(universe.RunningStateRun.String(), aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize(universe.RunningStateFinished.String(), aurora.RedFg).String(),
	}
)

func NewViewTerminal() *ConsoleUI {

	var err error
	t := ConsoleUI{
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC,
			"^C",
			"Exit",
			t.cmdQuit,
			""},
		{'n',
			"N",
			"Next step",
			t.cmdNextRound,
			""},
		{'r',
			"R",
			"Run",
			t.cmdRun,
			""},
		{'s',
			"S",
			"Stop",
			t.cmdStop,
			""},
		{'c',
			"C",
			"Clear",
			t.cmdClear,
			""},
		{'w',
			"W",
			"Settle with random",
			t.cmdSettleWithRandom,
			""},
		{'g',
			"G",
			"Glider at cursor",
			t.cmdGlider,
			""},
		{'p',
			"P",
			"Pulsar at cursor",
			t.cmdPulsar,
			""},
		{gocui.MouseLeft,
			"MOUSE",
			"Settle the cell",
			t.cmdMouseClick,
			"battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

func (t *ConsoleUI) Start() {
	if err := t.g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		log.Panicln(err)
	}
	t.g.Close()
}

func (t *ConsoleUI) Refresh() {
	t.renderField()
	t.renderConfiguration()
	t.renderStatus()
}

func (t *ConsoleUI) renderField() {

	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("battlefield")
		if e != nil {
			return e
		}
		v.Clear()
		maxW, maxH := v.Size()
		var b bytes.Buffer
		t.u.WithGrid(func(a *grid.Grid) {
			t.drawField(&b, a, maxW, maxH)
		})
		_, _ = fmt.Fprint(v, b.String())
		return nil
	})
}

//drawField writes the visible part of the field, one char per cell
func (t *ConsoleUI) drawField(b *bytes.Buffer, a *grid.Grid, maxW int, maxH int) {
	crop := int(a.Width()) > maxW || int(a.Height()) > maxH
	for row := 0; row < int(a.Height()); row++ {
		//discard the data outside the view area
		if row >= maxH {
			break
		}
		//line feed char
		if row != 0 {
			b.WriteByte(10)
		}
		if crop && row == (maxH-1) {
			b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
			break
		}
		for col := 0; col < int(a.Width()) && col < maxW; col++ {
			if a.Alive(uint32(row), uint32(col)) {
				b.WriteString(t.liveFiller)
			} else {
				b.WriteString(t.deadFiller)
			}
		}
	}
}

func (t *ConsoleUI) renderStatus() {
	s := t.u.Status()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := t.g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Step", "%v", s.IterationNum))
			_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.Generation))
			_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		c := t.u.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Width, c.Height))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", c.MaxSteps))
			_, _ = fmt.Fprintln(v, t.renderProp("Ticks per step", "%v", c.TicksPerFrame))
			_, _ = fmt.Fprintln(v, t.renderProp("Seed", "%v", c.Seed))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	small := maxY < minWindowHeight
	headerHeight, title := 3, "\"The Life\" on a torus"
	if small {
		headerHeight, title = maxY, "Terminal height too small"
	}
	if _, err := t.headerLayout(g, headerHeight, title); err != nil {
		if errors.Is(err, errTerminalTooNarrow) {
			small = true
		} else if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
	}
	if small {
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		_ = g.DeleteView("help")
		return nil
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	if v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) || v == nil {
			return err
		}
		v.Title = "Battle Field"
		v.Frame = true
	}
	t.renderField()

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) || v == nil {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if errors.Is(err, gocui.ErrUnknownView) && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		header, hErr := headerText(maxX, height, text)
		if hErr != nil {
			return v, hErr
		}
		_, _ = fmt.Fprintln(v, header)
	}
	return
}

//headerText centres text in the header of maxX columns
func headerText(maxX int, height int, text string) (string, error) {
	if maxX < len(text) {
		return "", fmt.Errorf("%w: %v columns", errTerminalTooNarrow, maxX)
	}
	return strings.Repeat("\n", height/2+1) + strings.Repeat(" ", (maxX-len(text))/2) + text, nil
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.u.Run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.u.Stop()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.u.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.u.SettleWithRandomData()
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	t.inverseAt(cx, cy)
	return nil
}

//inverseAt toggles the cell under the view position x, y
func (t *ConsoleUI) inverseAt(x int, y int) {
	if x < 0 || y < 0 {
		return
	}
	t.u.InverseCell(uint32(y), uint32(x))
}

func (t *ConsoleUI) cmdGlider(_ *gocui.View) error {
	return t.settleAtCursor(universe.Glider.Name)
}

func (t *ConsoleUI) cmdPulsar(_ *gocui.View) error {
	return t.settleAtCursor(universe.Pulsar.Name)
}

//settleAtCursor places the template centred on the last clicked cell
func (t *ConsoleUI) settleAtCursor(name string) error {
	v, err := t.g.View("battlefield")
	if err != nil {
		return err
	}
	cx, cy := v.Cursor()
	return t.settleAt(name, cx, cy)
}

//settleAt anchors the template at the view position x, y
func (t *ConsoleUI) settleAt(name string, x int, y int) error {
	if !t.u.SettleTemplate(name, y, x) {
		return fmt.Errorf("unknown template %q", name)
	}
	return nil
}
