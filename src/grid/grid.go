package grid

import (
	"fmt"
	"math/bits"
	"strings"
)

//Cell is the state of one grid position
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

//glyphs used by String
const (
	AliveGlyph = '◼'
	DeadGlyph  = '◻'
)

const defaultSize = 64

//RandomSource supplies uniformly distributed values in [0, 1), *rand.Rand satisfies it
type RandomSource interface {
	Float64() float64
}

//Coord is a (row, column) pair
type Coord struct {
	Row uint32
	Col uint32
}

//Grid is the toroidal Game of Life field
//cells are packed one bit per cell in row-major order, most significant bit first:
//cell i = row*width + col lives in byte i/8 under the mask 0x80 >> (i%8)
//a Grid is not safe for concurrent use, the owner serialises all calls
type Grid struct {
	width  uint32
	height uint32
	cells  []byte
}

//New creates the grid with every cell independently alive with probability 0.5
//zero dimensions are allowed and produce an empty grid
func New(width uint32, height uint32, rnd RandomSource) *Grid {
	g := &Grid{width: width, height: height}
	g.cells = make([]byte, packedSize(g.Len()))
	g.ResetRandom(rnd)
	return g
}

//New64x64 creates the default sized random grid
func New64x64(rnd RandomSource) *Grid {
	return New(defaultSize, defaultSize, rnd)
}

func (g *Grid) Width() uint32 {
	return g.width
}

func (g *Grid) Height() uint32 {
	return g.height
}

//Len returns the number of logical cells
func (g *Grid) Len() int {
	return int(g.width) * int(g.height)
}

//CellsSize returns the number of bytes backing the packed buffer
func (g *Grid) CellsSize() int {
	return len(g.cells)
}

//Bytes exports the packed buffer in the layout described on Grid
//the returned slice is a copy, changing it does not affect the grid
func (g *Grid) Bytes() []byte {
	b := make([]byte, len(g.cells))
	copy(b, g.cells)
	return b
}

//SetWidth changes the width and kills every cell
func (g *Grid) SetWidth(width uint32) {
	g.width = width
	g.realloc()
}

//SetHeight changes the height and kills every cell
func (g *Grid) SetHeight(height uint32) {
	g.height = height
	g.realloc()
}

//ResetRandom refills the grid in place, one draw from rnd per cell in index order
func (g *Grid) ResetRandom(rnd RandomSource) {
	for i := 0; i < g.Len(); i++ {
		g.set(i, rnd.Float64() < 0.5)
	}
}

//ResetDead kills every cell in place
func (g *Grid) ResetDead() {
	for i := range g.cells {
		g.cells[i] = 0
	}
}

//SetCellAlive revives the cell, coordinates outside the grid are ignored
func (g *Grid) SetCellAlive(row uint32, col uint32) {
	idx := g.index(row, col)
	if row < g.height && col < g.width {
		g.set(idx, true)
	}
}

//ToggleCell flips the cell if its index lies inside the buffer
//there is no per-axis check: a column past the edge addresses the next row
func (g *Grid) ToggleCell(row uint32, col uint32) {
	idx := g.index(row, col)
	if idx < g.Len() {
		g.set(idx, !g.get(idx))
	}
}

//SetCells revives every listed cell
//coordinates are trusted, an index outside the buffer panics
func (g *Grid) SetCells(coords []Coord) {
	for _, c := range coords {
		idx := g.index(c.Row, c.Col)
		if idx >= g.Len() {
			panic(fmt.Sprintf("grid: cell (%d, %d) outside %dx%d grid", c.Row, c.Col, g.width, g.height))
		}
		g.set(idx, true)
	}
}

//Cell returns the state at row, col, cells outside the grid read as Dead
func (g *Grid) Cell(row uint32, col uint32) Cell {
	if g.Alive(row, col) {
		return Alive
	}
	return Dead
}

func (g *Grid) Alive(row uint32, col uint32) bool {
	if row >= g.height || col >= g.width {
		return false
	}
	return g.get(g.index(row, col))
}

//LiveCells counts alive cells
func (g *Grid) LiveCells() int {
	n := 0
	for _, b := range g.cells {
		n += bits.OnesCount8(b)
	}
	return n
}

//Advance computes the next generation into a new buffer and swaps it in
//it is a no-op on a zero-area grid
func (g *Grid) Advance() {
	if g.width == 0 || g.height == 0 {
		return
	}
	next := make([]byte, len(g.cells))
	for row := uint32(0); row < g.height; row++ {
		for col := uint32(0); col < g.width; col++ {
			idx := g.index(row, col)
			if nextState(g.get(idx), g.liveNeighborCount(row, col)) {
				next[idx/8] |= mask(idx)
			}
		}
	}
	g.cells = next
}

//Render returns the textual field, see String
func (g *Grid) Render() string {
	return g.String()
}

//String renders one line per row, AliveGlyph for alive and DeadGlyph for dead cells
func (g *Grid) String() string {
	var b strings.Builder
	for row := uint32(0); row < g.height; row++ {
		for col := uint32(0); col < g.width; col++ {
			if g.get(g.index(row, col)) {
				b.WriteRune(AliveGlyph)
			} else {
				b.WriteRune(DeadGlyph)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

//nextState applies the transition rule
func nextState(alive bool, liveNeighbours uint8) bool {
	switch {
	case alive && liveNeighbours < 2:
		return false
	case alive && (liveNeighbours == 2 || liveNeighbours == 3):
		return true
	case alive && liveNeighbours > 3:
		return false
	case !alive && liveNeighbours == 3:
		return true
	case !alive:
		return false
	default:
		//unreachable, the cases above cover every count
		return alive
	}
}

//liveNeighborCount counts alive cells among the 8 toroidal neighbours
func (g *Grid) liveNeighborCount(row uint32, col uint32) uint8 {
	if g.width == 0 || g.height == 0 {
		return 0
	}
	var count uint8
	for _, dr := range [3]uint32{g.height - 1, 0, 1} {
		for _, dc := range [3]uint32{g.width - 1, 0, 1} {
			//skip the cell itself
			if dr == 0 && dc == 0 {
				continue
			}
			r := wrap(row, dr, g.height)
			c := wrap(col, dc, g.width)
			if g.get(g.index(r, c)) {
				count++
			}
		}
	}
	return count
}

//wrap returns (v + delta) mod n without overflowing uint32
func wrap(v uint32, delta uint32, n uint32) uint32 {
	return uint32((uint64(v) + uint64(delta)) % uint64(n))
}

//index is plain arithmetic without bounds enforcement
func (g *Grid) index(row uint32, col uint32) int {
	return int(row)*int(g.width) + int(col)
}

func (g *Grid) get(i int) bool {
	return g.cells[i/8]&mask(i) != 0
}

func (g *Grid) set(i int, alive bool) {
	if alive {
		g.cells[i/8] |= mask(i)
	} else {
		g.cells[i/8] &^= mask(i)
	}
}

func (g *Grid) realloc() {
	g.cells = make([]byte, packedSize(g.Len()))
}

func mask(i int) byte {
	return 0x80 >> uint(i%8)
}

func packedSize(n int) int {
	return (n + 7) / 8
}
