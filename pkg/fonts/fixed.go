package fonts

import "golang.org/x/image/math/fixed"

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Point converts pixel coordinates to a 26.6 fixed-point point.
func Point(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}
