package labels

import (
	"cmp"
	"encoding/json"
	"math"
	"slices"

	"github.com/jbeda/geom"

	"github.com/matzehuels/genomering/pkg/cache"
	"github.com/matzehuels/genomering/pkg/geometry"
)

const (
	// boxPadding is the minimum gap kept around every label box.
	boxPadding = 1.5
	// textGap separates the end of a leader line from its text box.
	textGap = 2.0
	// canvasMargin keeps label boxes off the canvas edge.
	canvasMargin = 2.0
)

// item is a request prepared for placement.
type item struct {
	req     Request
	side    Side
	metrics Metrics
}

// Place computes label positions for reqs. See the package documentation for
// the search. For quality q the result is the best of the passes at levels
// 1..q (most labels placed, ties to the higher level), which makes the number
// of placed labels non-decreasing in q.
func Place(reqs []Request, p Params, m Measurer) *Placement {
	p.Quality = ClampQuality(p.Quality)

	items, dropped := prepare(reqs, p, m)

	var (
		best      *pass
		bestLevel int
	)
	for level := MinQuality; level <= p.Quality; level++ {
		res := runPass(items, p, budgetFor(level))
		if best == nil || len(res.placed) >= len(best.placed) {
			best, bestLevel = res, level
		}
		if len(res.exhausted) == 0 {
			break
		}
	}

	out := &Placement{
		Fingerprint: Fingerprint(reqs, p),
		Quality:     bestLevel,
		Labels:      best.placed,
		Suppressed:  append(dropped, best.exhausted...),
	}
	slices.SortFunc(out.Labels, func(a, b Placed) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(out.Suppressed, func(a, b Suppressed) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Fingerprint hashes the placement inputs. Two calls with equal requests and
// parameters return the same string.
func Fingerprint(reqs []Request, p Params) string {
	p.Quality = ClampQuality(p.Quality)
	data, err := json.Marshal(struct {
		Requests []Request `json:"requests"`
		Params   Params    `json:"params"`
	}{reqs, p})
	if err != nil {
		// Only NaN or Inf coordinates fail to encode; they never match.
		return ""
	}
	return cache.Hash(data)
}

// prepare measures requests, applies the inner-label mode and sorts the
// result into placement order: forced labels first, then by anchor angle.
func prepare(reqs []Request, p Params, m Measurer) ([]item, []Suppressed) {
	var (
		items   []item
		dropped []Suppressed
	)
	for _, r := range reqs {
		if r.Clipped {
			dropped = append(dropped, Suppressed{ID: r.ID, Text: r.Text, Reason: ReasonOutOfWindow})
			continue
		}
		side := r.Side
		if side == Inner {
			switch p.InnerMode {
			case InnerHidden:
				dropped = append(dropped, Suppressed{ID: r.ID, Text: r.Text, Reason: ReasonHidden})
				continue
			case InnerRelocate:
				side = Outer
			}
		}
		items = append(items, item{req: r, side: side, metrics: m.Measure(r.Text, p.FontSize)})
	}

	slices.SortStableFunc(items, func(a, b item) int {
		if a.req.Force != b.req.Force {
			if a.req.Force {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(geometry.NormalizeAngle(a.req.Angle), geometry.NormalizeAngle(b.req.Angle)); c != 0 {
			return c
		}
		return cmp.Compare(a.req.ID, b.req.ID)
	})
	return items, dropped
}

// pass is the state of one placement pass.
type pass struct {
	p         Params
	b         budget
	placed    []Placed
	grid      *grid
	exhausted []Suppressed
}

func runPass(items []item, p Params, b budget) *pass {
	s := &pass{p: p, b: b, grid: newGrid()}
	for _, it := range items {
		pl, ok := s.search(it, it.side)
		if !ok && it.side == Inner && p.InnerMode == InnerAuto {
			pl, ok = s.search(it, Outer)
		}
		if !ok && it.req.Force {
			if pl, ok = s.candidate(it, it.side, 0, 0, 0); ok {
				pl.Forced = true
			}
		}
		if !ok {
			s.exhausted = append(s.exhausted, Suppressed{ID: it.req.ID, Text: it.req.Text, Reason: ReasonExhausted})
			continue
		}
		s.add(pl)
	}
	return s
}

// search walks the ranked candidates for it on one side and returns the first
// that fits. Radial extensions form the outer loop; within each, angular
// shifts alternate 0, +1, -1, +2, -2 and so on.
func (s *pass) search(it item, side Side) (Placed, bool) {
	step := s.angularStep(it, side)
	limit := allowedShift(it.req.Angle)
	for k := 0; k <= s.b.radialSteps; k++ {
		for n := 0; n <= 2*s.b.angularSteps; n++ {
			j := (n + 1) / 2
			if n%2 == 0 {
				j = -j
			}
			if math.Abs(float64(j))*step > limit {
				continue
			}
			pl, ok := s.candidate(it, side, j, k, step)
			if ok && s.fits(pl, side) {
				return pl, true
			}
		}
	}
	return Placed{}, false
}

// angularStep is the angle that moves a label by about half its height at
// the end of its leader line.
func (s *pass) angularStep(it item, side Side) float64 {
	r := s.p.OuterStart + s.p.LineLength
	if side == Inner {
		r = max(s.p.InnerStart-s.p.LineLength, 1)
	}
	return (it.metrics.Height()/2 + boxPadding) / r
}

// allowedShift bounds how far a label may drift from its anchor. Labels near
// the top and bottom of the map are kept closer.
func allowedShift(angle float64) float64 {
	if math.Abs(math.Cos(angle)) > 0.7 {
		return math.Pi / 8
	}
	return math.Pi / 5
}

// candidate builds the label geometry for angular shift j and radial
// extension k. It fails only when an inner leader line would cross the
// centre.
func (s *pass) candidate(it item, side Side, j, k int, step float64) (Placed, bool) {
	p := s.p
	angle := it.req.Angle + float64(j)*step
	ext := float64(k) * s.b.radialShift

	var start, elbow, end float64
	if side == Outer {
		start = p.OuterStart
		elbow = start + p.LineLength
		end = elbow + ext
	} else {
		start = p.InnerStart
		elbow = start - p.LineLength
		end = elbow - ext
		if end <= 0 {
			return Placed{}, false
		}
	}

	line := []geom.Coord{
		geometry.Point(p.Center, start, it.req.Angle),
		geometry.Point(p.Center, elbow, angle),
	}
	if ext > 0 {
		line = append(line, geometry.Point(p.Center, end, angle))
	}
	tip := line[len(line)-1]

	// The box hangs off the tip in the direction the line points, so text
	// right of centre starts at the tip and text left of centre ends there.
	dx, dy := math.Sin(angle), -math.Cos(angle)
	if side == Inner {
		dx, dy = -dx, -dy
	}
	w, h := it.metrics.Width, it.metrics.Height()
	x := tip.X + (dx-1)/2*w + textGap*dx
	y := tip.Y + (dy-1)/2*h + textGap*dy

	return Placed{
		ID:        it.req.ID,
		Text:      it.req.Text,
		Side:      side,
		Box:       geometry.RectAt(x, y, w, h),
		Baseline:  geom.Coord{X: x, Y: y + it.metrics.Ascent},
		Line:      line,
		Hyperlink: it.req.Hyperlink,
		Mouseover: it.req.Mouseover,
		Color:     it.req.Color,
		FontSize:  p.FontSize,
	}, true
}

// fits reports whether pl can be added to the pass without collisions.
func (s *pass) fits(pl Placed, side Side) bool {
	p := s.p
	if !geometry.Contains(geometry.Inset(p.Canvas, canvasMargin), pl.Box) {
		return false
	}
	switch side {
	case Outer:
		if geometry.MinDistance(p.Center, pl.Box) < p.OuterStart {
			return false
		}
	case Inner:
		if geometry.MaxDistance(p.Center, pl.Box) > p.InnerStart {
			return false
		}
	}

	padded := geometry.Inset(pl.Box, -boxPadding)
	for _, o := range p.Obstacles {
		if geometry.Intersects(padded, o) || lineCrosses(pl.Line, o) {
			return false
		}
	}

	return s.grid.query(extent(pl), func(idx int) bool {
		other := &s.placed[idx]
		return !geometry.Intersects(padded, other.Box) &&
			!lineCrosses(other.Line, padded) &&
			!lineCrosses(pl.Line, other.Box)
	})
}

func (s *pass) add(pl Placed) {
	s.placed = append(s.placed, pl)
	s.grid.insert(len(s.placed)-1, extent(pl))
}

// extent is the padded box grown to include the leader line.
func extent(pl Placed) geom.Rect {
	r := geometry.Inset(pl.Box, -boxPadding)
	for _, c := range pl.Line {
		r.ExpandToContainCoord(c)
	}
	return r
}

func lineCrosses(line []geom.Coord, r geom.Rect) bool {
	for i := 1; i < len(line); i++ {
		if geometry.SegmentIntersectsRect(line[i-1], line[i], r) {
			return true
		}
	}
	return false
}
