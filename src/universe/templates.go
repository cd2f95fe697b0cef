package universe

import "toruslife/src/grid"

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name    string   //template name
	Descr   string   //template descr
	Offsets [][2]int //array of [row, col] offsets from the anchor cell
}

var (
	Glider = Template{
		"glider",
		"the smallest spaceship, travels diagonally",
		[][2]int{{-1, 0}, {0, 1}, {1, -1}, {1, 0}, {1, 1}},
	}
	Blinker = Template{
		"blinker",
		"period 2 oscillator",
		[][2]int{{0, -1}, {0, 0}, {0, 1}},
	}
	Block = Template{
		"block",
		"still life",
		[][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
	}
	Pulsar = Template{
		"pulsar",
		"period 3 oscillator",
		pulsarOffsets(),
	}

	builtinTemplates = []Template{Glider, Blinker, Block, Pulsar}
)

//BuiltinTemplates returns the templates every universe starts with
func BuiltinTemplates() []Template {
	return append([]Template(nil), builtinTemplates...)
}

//pulsarOffsets builds the 48 cells of the pulsar around its centre
func pulsarOffsets() [][2]int {
	offsets := make([][2]int, 0, 48)
	for _, a := range []int{-6, -1, 1, 6} {
		for _, b := range []int{-4, -3, -2, 2, 3, 4} {
			offsets = append(offsets, [2]int{a, b}, [2]int{b, a})
		}
	}
	return offsets
}

//place settles the template anchored at row, col
//cells falling outside the grid are dropped
func (t Template) place(g *grid.Grid, row int, col int) {
	for _, o := range t.Offsets {
		r, c := row+o[0], col+o[1]
		if r < 0 || c < 0 {
			continue
		}
		g.SetCellAlive(uint32(r), uint32(c))
	}
}
