package labels

import (
	"math"

	"github.com/jbeda/geom"
)

const gridCell = 48.0

type cell struct{ x, y int }

// grid is a uniform spatial hash over placed labels. Entries are indices
// into the caller's slice.
type grid struct {
	cells map[cell][]int
	seen  []int
	epoch int
}

func newGrid() *grid {
	return &grid{cells: make(map[cell][]int)}
}

func cellRange(r geom.Rect) (x0, y0, x1, y1 int) {
	return int(math.Floor(r.Min.X / gridCell)), int(math.Floor(r.Min.Y / gridCell)),
		int(math.Floor(r.Max.X / gridCell)), int(math.Floor(r.Max.Y / gridCell))
}

func (g *grid) insert(idx int, r geom.Rect) {
	x0, y0, x1, y1 := cellRange(r)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			k := cell{x, y}
			g.cells[k] = append(g.cells[k], idx)
		}
	}
	for len(g.seen) <= idx {
		g.seen = append(g.seen, 0)
	}
}

// query calls fn once for every entry whose cells overlap r and stops early
// when fn returns false. It reports whether fn never returned false.
func (g *grid) query(r geom.Rect, fn func(idx int) bool) bool {
	g.epoch++
	x0, y0, x1, y1 := cellRange(r)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for _, idx := range g.cells[cell{x, y}] {
				if g.seen[idx] == g.epoch {
					continue
				}
				g.seen[idx] = g.epoch
				if !fn(idx) {
					return false
				}
			}
		}
	}
	return true
}
