package universe

import (
	"bytes"
	"math/rand"
	"sort"
	"sync"
	"time"

	"toruslife/src/grid"
)

//ToroidalUniverse runs the Game of Life on a toroidal grid
//implements Universe interface
//every change of the grid is done under the grid lock, the simulation steps are executed by the main loop goroutine only
type ToroidalUniverse struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	area struct {
		*grid.Grid
		sync.Mutex
	}
	rnd       *rand.Rand
	stateCh   chan Status
	views     struct {
		list []Viewer
		sync.Mutex
	}
	templates map[string]Template
	controlCh chan func()
	closeCh   chan struct{}
	closeOnce sync.Once
}

//NewToroidalUniverse creates the ToroidalUniverse instance populated with random data
func NewToroidalUniverse(o *Options, stateCh chan Status) *ToroidalUniverse {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	opts := *o
	if opts.TicksPerFrame < 1 {
		opts.TicksPerFrame = 1
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	u := ToroidalUniverse{
		options:   opts,
		rnd:       rand.New(rand.NewSource(opts.Seed)),
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		stateCh:   stateCh,
		templates: map[string]Template{},
	}
	for _, tmpl := range builtinTemplates {
		u.AddTemplate(tmpl)
	}
	u.state.Details = make(map[string]interface{})
	u.area.Grid = grid.New(opts.Width, opts.Height, u.rnd)
	if opts.Dead {
		u.area.ResetDead()
	}
	u.state.LiveCells = u.area.LiveCells()
	u.describe(u.area.CellsSize())
	u.refreshView()
	go u.mainLoop()
	return &u
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *ToroidalUniverse) AddTemplate(tmpl Template) {
	u.templates[tmpl.Name] = tmpl
}

//Templates returns the known templates sorted by name
func (u *ToroidalUniverse) Templates() []Template {
	tt := make([]Template, 0, len(u.templates))
	for _, t := range u.templates {
		tt = append(tt, t)
	}
	sort.Slice(tt, func(i, j int) bool { return tt[i].Name < tt[j].Name })
	return tt
}

//Settle settles the universe with data
//vc - array of row, col coordinates, the coordinates outside the area are skipped
func (u *ToroidalUniverse) Settle(vc []grid.Coord) {
	u.area.Lock()
	in := make([]grid.Coord, 0, len(vc))
	for _, c := range vc {
		if c.Row < u.area.Height() && c.Col < u.area.Width() {
			in = append(in, c)
		}
	}
	u.area.SetCells(in)
	u.area.Unlock()
	u.updateLiveCells()
	u.refreshView()
}

//SettleTemplate populates the universe with the seeding template anchored at row, col
//returns false for the unknown template
func (u *ToroidalUniverse) SettleTemplate(name string, row int, col int) bool {
	tmpl, ok := u.templates[name]
	if !ok {
		return false
	}
	u.area.Lock()
	tmpl.place(u.area.Grid, row, col)
	u.area.Unlock()
	u.updateLiveCells()
	u.refreshView()
	return true
}

//SettleWithRandomData populates the universe with random data, returns immediately
//ignored while the simulation is running
func (u *ToroidalUniverse) SettleWithRandomData() {
	mode := u.runningMode()
	if mode == RunningStateManual || mode == RunningStateFinished {
		u.controlCh <- u.clear
		u.controlCh <- func() {
			u.area.Lock()
			u.area.ResetRandom(u.rnd)
			u.area.Unlock()
			u.updateLiveCells()
			u.refreshView()
		}
	}
}

//InverseCell inverses the cell state at row, col
func (u *ToroidalUniverse) InverseCell(row uint32, col uint32) {
	u.area.Lock()
	if row >= u.area.Height() || col >= u.area.Width() {
		u.area.Unlock()
		return
	}
	u.area.ToggleCell(row, col)
	u.area.Unlock()
	u.updateLiveCells()
	u.refreshView()
}

//Resize changes the area dimensions, all cells die and the counters are reset, returns immediately
func (u *ToroidalUniverse) Resize(width uint32, height uint32) {
	u.controlCh <- func() {
		u.area.Lock()
		u.area.SetWidth(width)
		u.area.SetHeight(height)
		size := u.area.CellsSize()
		u.area.Unlock()
		u.state.Lock()
		u.options.Width, u.options.Height = width, height
		u.describe(size)
		u.state.Unlock()
		u.clear()
	}
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *ToroidalUniverse) RegisterViewer(v Viewer) {
	u.views.Lock()
	u.views.list = append(u.views.list, v)
	u.views.Unlock()
	v.Register(u)
}

//StateCh returns the channel with the universe's status updates
func (u *ToroidalUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *ToroidalUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.Status
}

//Options returns current universe configuration represented by Options struct
func (u *ToroidalUniverse) Options() Options {
	u.state.Lock()
	defer u.state.Unlock()
	return u.options
}

//WithGrid calls fn holding the grid lock, fn must not keep the grid
func (u *ToroidalUniverse) WithGrid(fn func(g *grid.Grid)) {
	u.area.Lock()
	defer u.area.Unlock()
	fn(u.area.Grid)
}

//Run starts the universe simulation, returns immediately
func (u *ToroidalUniverse) Run() {
	u.controlCh <- u.run
}

//Stop stops the universe simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (u *ToroidalUniverse) Stop() {
	u.controlCh <- u.stop
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (u *ToroidalUniverse) Step() {
	u.controlCh <- u.step
}

//Clear clears the universe (kill all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (u *ToroidalUniverse) Clear() {
	u.controlCh <- u.clear
}

//Close stops the main loop, returns immediately
func (u *ToroidalUniverse) Close() {
	u.closeOnce.Do(func() {
		close(u.closeCh)
	})
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *ToroidalUniverse) mainLoop() {
	for {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-u.closeCh:
			return
		}
	}
}

//describe fills the advanced options shown by the viewers
func (u *ToroidalUniverse) describe(bufferBytes int) {
	u.options.Advanced = map[string]interface{}{
		"Topology":        "torus",
		"Seed":            u.options.Seed,
		"Ticks per frame": u.options.TicksPerFrame,
		"Buffer bytes":    bufferBytes,
	}
}

func (u *ToroidalUniverse) runningMode() RunningState {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.RunningMode
}

//updateLiveCells recalculates the count of live cells
func (u *ToroidalUniverse) updateLiveCells() {
	u.area.Lock()
	n := u.area.LiveCells()
	u.area.Unlock()
	u.state.Lock()
	u.state.LiveCells = n
	u.state.Unlock()
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *ToroidalUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.state.Status
	u.state.Unlock()
	if u.stateCh != nil {
		u.stateCh <- st
	}
}

//run starts the universe simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (u *ToroidalUniverse) run() {
	if u.runningMode() == RunningStateRun {
		return
	}
	u.switchRunningState(RunningStateRun)
	go func() {
		skipped := 0
		done := make(chan bool, 1)
		for {
			mode := u.runningMode()
			if mode != RunningStateRun && mode != RunningStateStep {
				break
			}
			if skipped > u.options.MaxSkippedTicks {
				u.switchRunningState(RunningStateFinished)
				break
			}
			//skip the tick if the universe is still in the calculation mode
			if mode != RunningStateStep {
				skipped = 0
				select {
				case u.controlCh <- func() {
					if u.runningMode() == RunningStateRun {
						u.step()
					}
					done <- true
				}:
				case <-u.closeCh:
					return
				}
				select {
				case <-done:
				case <-u.closeCh:
					return
				}
			} else {
				skipped++
			}
			if u.options.Interval > 0 {
				time.Sleep(u.options.Interval)
			}
		}
	}()
}

//stop stops the universe running cycle
func (u *ToroidalUniverse) stop() {
	if u.runningMode() == RunningStateRun {
		u.switchRunningState(RunningStateManual)
	}
}

//step does the new state calculation for entire universe
func (u *ToroidalUniverse) step() {
	finished := false
	rm := u.runningMode()
	if rm == RunningStateFinished {
		rm = RunningStateManual
	}
	defer func() {
		if finished {
			u.switchRunningState(RunningStateFinished)
		} else {
			u.switchRunningState(rm)
		}
		u.refreshView()
	}()

	u.switchRunningState(RunningStateStep)
	isAlive, changed := u.nextIteration()

	u.state.Lock()
	u.state.IterationNum++
	iter := u.state.IterationNum
	u.state.Unlock()

	maxIter := u.options.MaxSteps
	if !isAlive || !changed || (maxIter != 0 && iter >= maxIter) {
		finished = true
	}
}

//clear clears the universe data, reset all counters
func (u *ToroidalUniverse) clear() {
	u.area.Lock()
	u.area.ResetDead()
	u.area.Unlock()

	u.state.Lock()
	u.state.IterationNum = 0
	u.state.Generation = 0
	u.state.LiveCells = 0
	u.state.IterationTime = 0
	u.state.Unlock()
	u.switchRunningState(RunningStateManual)
	u.refreshView()
}

//nextIteration advances the grid TicksPerFrame generations
//the grid computes every generation into the new buffer and swaps it in, so the viewers never see a partial generation
func (u *ToroidalUniverse) nextIteration() (hasLiveEntities bool, changed bool) {
	u.area.Lock()
	start := time.Now()
	before := u.area.Bytes()
	for i := 0; i < u.options.TicksPerFrame; i++ {
		u.area.Advance()
	}
	liveCells := u.area.LiveCells()
	changed = !bytes.Equal(before, u.area.Bytes())
	u.area.Unlock()

	u.state.Lock()
	u.state.Generation += u.options.TicksPerFrame
	u.state.LiveCells = liveCells
	u.state.IterationTime = time.Since(start)
	u.state.Unlock()
	hasLiveEntities = liveCells > 0
	return
}

//refreshView calls Refresh event for all registered views
//the list is copied so a viewer registered meanwhile is not raced with
func (u *ToroidalUniverse) refreshView() {
	u.views.Lock()
	views := append([]Viewer(nil), u.views.list...)
	u.views.Unlock()
	for _, v := range views {
		v.Refresh()
	}
}
