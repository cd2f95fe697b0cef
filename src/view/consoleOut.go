package view

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
	"toruslife/src/grid"
	"toruslife/src/universe"
)

//ConsoleOut prints the simulation progress without the interactive UI
type ConsoleOut struct {
	u          universe.Universe
	w          io.Writer
	startTime  time.Time
	printField bool
	colors     bool
	done       chan struct{}
	doneOnce   sync.Once
}

//NewConsoleOut creates the viewer writing to w
//printField enables the final field rendering, colors enables the ANSI colored headings
func NewConsoleOut(w io.Writer, printField bool, colors bool) *ConsoleOut {
	return &ConsoleOut{
		w:          w,
		printField: printField,
		colors:     colors,
		done:       make(chan struct{}),
	}
}

//Done is closed once the finishing summary is printed
func (c *ConsoleOut) Done() <-chan struct{} {
	return c.done
}

func (c *ConsoleOut) Refresh() {
	if c.startTime.IsZero() {
		return
	}
	st := c.u.Status()
	if st.RunningMode == universe.RunningStateFinished {
		c.doneOnce.Do(func() {
			totalTime := time.Since(c.startTime).Round(time.Millisecond)
			resultData := map[string]interface{}{
				"Last iteration": st.IterationNum,
				"Generation":     st.Generation,
				"Total time":     totalTime,
				"Live cells":     st.LiveCells,
			}
			c.println("\n" + c.heading("Finished:"))
			c.printHashData(resultData)
			if c.printField {
				c.u.WithGrid(func(g *grid.Grid) {
					_, _ = fmt.Fprint(c.w, g.String())
				})
			}
			close(c.done)
		})
	} else if st.RunningMode == universe.RunningStateRun {
		if st.IterationNum%10 == 0 {
			_, _ = fmt.Fprintf(c.w, "  Iterations done: %v\n", st.IterationNum)
		}
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	c.println(c.heading("Running configuration:"))
	_, _ = fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	_, _ = fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	_, _ = fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	c.println("\n\"The Life\" game simulation started...")
}

func (c *ConsoleOut) heading(s string) string {
	if !c.colors {
		return s
	}
	return aurora.Colorize(s, aurora.GreenFg|aurora.BoldFm).String()
}

func (c *ConsoleOut) println(s string) {
	_, _ = fmt.Fprintln(c.w, s)
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
