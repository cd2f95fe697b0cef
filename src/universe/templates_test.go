package universe

import (
	"bytes"
	"math/rand"
	"testing"

	"toruslife/src/grid"
)

func emptyGrid(size uint32) *grid.Grid {
	g := grid.New(size, size, rand.New(rand.NewSource(1)))
	g.ResetDead()
	return g
}

func TestTemplates_Periods(t *testing.T) {
	tests := []struct {
		tmpl   Template
		size   uint32
		cells  int
		period int
	}{
		{Block, 6, 4, 1},
		{Blinker, 5, 3, 2},
		{Pulsar, 17, 48, 3},
	}
	for _, tt := range tests {
		t.Run(tt.tmpl.Name, func(t *testing.T) {
			g := emptyGrid(tt.size)
			tt.tmpl.place(g, int(tt.size/2), int(tt.size/2))
			if g.LiveCells() != tt.cells {
				t.Fatalf("got %d cells, expected %d", g.LiveCells(), tt.cells)
			}
			start := g.Bytes()
			for i := 1; i <= tt.period; i++ {
				g.Advance()
				if same := bytes.Equal(start, g.Bytes()); same != (i == tt.period) {
					t.Fatalf("generation %d: equal to start=%v\n%s", i, same, g)
				}
			}
		})
	}
}

func TestTemplate_PlaceClipsEdges(t *testing.T) {
	g := emptyGrid(8)
	Pulsar.place(g, 7, 7)
	for row := uint32(0); row < 8; row++ {
		for col := uint32(0); col < 8; col++ {
			if g.Alive(row, col) && (row < 1 || col < 1) {
				t.Fatalf("unexpected cell (%d, %d)", row, col)
			}
		}
	}
	//cells left or above the anchor inside the grid only
	if g.LiveCells() != 12 {
		t.Fatalf("got %d cells\n%s", g.LiveCells(), g)
	}
}
