package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/integrii/flaggy"
	"toruslife/src/universe"
	"toruslife/src/view"
)

type EnvOptions struct {
	interactive bool
	randomData  bool
	printField  bool
	pattern     string
}

func main() {
	eo, uo := initOptions()

	uo.Dead = !eo.randomData
	u := universe.NewToroidalUniverse(uo, nil)
	if !eo.randomData {
		o := u.Options()
		u.SettleTemplate(eo.pattern, int(o.Height/2), int(o.Width/2))
	}

	if eo.interactive {
		v := view.NewViewTerminal()
		u.RegisterViewer(v)
		v.Start()
		u.Close()
		return
	}

	out := view.NewConsoleOut(os.Stdout, eo.printField, true)
	u.RegisterViewer(out)
	out.Start()
	u.Run()
	<-out.Done()
	u.Close()
}

func initOptions() (eo *EnvOptions, uo *universe.Options) {

	o := universe.DefaultUniverseOptions
	uo = &o
	eo = &EnvOptions{pattern: universe.Glider.Name}

	names := make([]string, 0)
	for _, t := range universe.BuiltinTemplates() {
		names = append(names, t.Name)
	}

	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.UInt32(&uo.Width, "x", "width", "Width of a simulation field")
	flaggy.UInt32(&uo.Height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&uo.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&uo.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 means no limit")
	flaggy.Int(&uo.TicksPerFrame, "t", "ticks", "Generations computed by one step")
	flaggy.Int64(&uo.Seed, "", "seed", "Seed of the random data, 0 means the current time")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.String(&eo.pattern, "p", "pattern", "Pattern placed at the centre ["+strings.Join(names, "|")+"]")
	flaggy.Bool(&eo.printField, "", "print", "Print the field when the simulation is finished")

	flaggy.Parse()

	found := false
	for _, n := range names {
		found = found || n == eo.pattern
	}
	if !found {
		flaggy.ShowHelpAndExit(fmt.Sprintf("unknown pattern %q", eo.pattern))
	}

	if !eo.interactive {
		flaggy.ShowHelp("")
	}

	return
}
