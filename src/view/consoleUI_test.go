package view

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"toruslife/src/grid"
	"toruslife/src/universe"
)

//recordingUniverse remembers the cells addressed by the UI commands
type recordingUniverse struct {
	universe.Universe
	settled  []string
	anchors  [][2]int
	inversed []grid.Coord
}

func (r *recordingUniverse) SettleTemplate(name string, row int, col int) bool {
	if name != universe.Glider.Name && name != universe.Pulsar.Name {
		return false
	}
	r.settled = append(r.settled, name)
	r.anchors = append(r.anchors, [2]int{row, col})
	return true
}

func (r *recordingUniverse) InverseCell(row uint32, col uint32) {
	r.inversed = append(r.inversed, grid.Coord{Row: row, Col: col})
}

func testField() *grid.Grid {
	g := grid.New(4, 3, rand.New(rand.NewSource(1)))
	g.ResetDead()
	g.SetCellAlive(0, 0)
	g.SetCellAlive(2, 3)
	return g
}

func TestConsoleUI_DrawField(t *testing.T) {
	ui := &ConsoleUI{liveFiller: "#", deadFiller: "."}
	var b bytes.Buffer
	ui.drawField(&b, testField(), 10, 10)
	if expected := "#...\n....\n...#"; b.String() != expected {
		t.Fatalf("got\n%s\nexpected\n%s", b.String(), expected)
	}
}

func TestConsoleUI_DrawFieldCropped(t *testing.T) {
	ui := &ConsoleUI{liveFiller: "#", deadFiller: "."}
	var b bytes.Buffer
	ui.drawField(&b, testField(), 2, 2)
	lines := strings.Split(b.String(), "\n")
	if len(lines) != 2 || lines[0] != "#." {
		t.Fatalf("unexpected field %q", b.String())
	}
	if !strings.Contains(lines[1], "larger than the viewing area") {
		t.Fatalf("no crop warning in %q", lines[1])
	}
}

func TestConsoleUI_SettleAt(t *testing.T) {
	r := &recordingUniverse{}
	ui := &ConsoleUI{u: r}

	if err := ui.settleAt(universe.Glider.Name, 7, 3); err != nil {
		t.Fatal(err)
	}
	if err := ui.settleAt(universe.Pulsar.Name, 0, 12); err != nil {
		t.Fatal(err)
	}
	if len(r.anchors) != 2 || r.anchors[0] != [2]int{3, 7} || r.anchors[1] != [2]int{12, 0} {
		t.Fatalf("got anchors %v, expected [[3 7] [12 0]]", r.anchors)
	}

	err := ui.settleAt("unknown", 1, 1)
	if err == nil || !strings.Contains(err.Error(), "unknown template") {
		t.Fatalf("got error %v", err)
	}
	if len(r.settled) != 2 {
		t.Fatalf("got settled %v", r.settled)
	}
}

func TestConsoleUI_InverseAt(t *testing.T) {
	r := &recordingUniverse{}
	ui := &ConsoleUI{u: r}

	ui.inverseAt(5, 2)
	ui.inverseAt(-1, 2)
	ui.inverseAt(2, -1)
	if len(r.inversed) != 1 || r.inversed[0] != (grid.Coord{Row: 2, Col: 5}) {
		t.Fatalf("got %v", r.inversed)
	}
}

func TestHeaderText(t *testing.T) {
	text := "\"The Life\" on a torus"
	h, err := headerText(40, 3, text)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(h, "\n")
	last := lines[len(lines)-1]
	if len(lines) != 3 || strings.TrimLeft(last, " ") != text || len(last) != (40-len(text))/2+len(text) {
		t.Fatalf("unexpected header %q", h)
	}

	if _, err := headerText(len(text)-1, 3, text); !errors.Is(err, errTerminalTooNarrow) {
		t.Fatalf("got error %v", err)
	}
}
