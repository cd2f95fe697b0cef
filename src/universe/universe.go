package universe

import (
	"time"

	"toruslife/src/grid"
)

type Universe interface {
	Status() Status
	Options() Options
	WithGrid(fn func(g *grid.Grid))
	StateCh() chan Status
	AddTemplate(tmpl Template)
	Templates() []Template
	SettleTemplate(name string, row int, col int) bool
	SettleWithRandomData()
	Settle(vc []grid.Coord)
	InverseCell(row uint32, col uint32)
	Resize(width uint32, height uint32)
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}

//Options represents the Universe's configurable options
type Options struct {
	Width           uint32
	Height          uint32
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	TicksPerFrame   int                    //generations computed by one step
	Seed            int64                  //seed of the random data, 0 means the current time
	Dead            bool                   //start with every cell dead instead of the random data
	Advanced        map[string]interface{} //advanced options
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	Generation    int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
	Details       map[string]interface{}
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start()
}

//The universe running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = 64
	DefHeight             = 64
	DefMaxSkippedTicks    = 5
	DefTicksPerFrame      = 1
)

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

var DefaultUniverseOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	TicksPerFrame:   DefTicksPerFrame,
}

func (s RunningState) String() string {
	switch s {
	case RunningStateManual:
		return "waiting"
	case RunningStateStep:
		return "do the step"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}
