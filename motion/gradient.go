package motion

import "math"

// estimateBlockGradient accumulates the structure tensor of the previous luma
// plane over the block and solves
//
//	[Sxx Sxy; Sxy Syy] [u v]^T = -[Sxt Syt]^T
//
// by Cramer's rule. (u, v) is the flow from previous to current, so the source
// offset stored in the field is its negation. Nearly singular systems (flat or
// single-orientation texture) are treated as static.
func estimateBlockGradient(cur, prev []float32, g Grid, bx, by int, o Options) Vector {
	r := g.BlockBounds(bx, by)
	w, h := g.Width, g.Height

	var sxx, sxy, syy, sxt, syt float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		up := max(y-1, 0) * w
		down := min(y+1, h-1) * w
		row := y * w
		for x := r.Min.X; x < r.Max.X; x++ {
			left := max(x-1, 0)
			right := min(x+1, w-1)

			ix := float64(prev[row+right]-prev[row+left]) / 2
			iy := float64(prev[down+x]-prev[up+x]) / 2
			it := float64(cur[row+x] - prev[row+x])

			sxx += ix * ix
			sxy += ix * iy
			syy += iy * iy
			sxt += ix * it
			syt += iy * it
		}
	}

	det := sxx*syy - sxy*sxy
	if math.Abs(det) < staticDeterminant {
		return Vector{}
	}

	bu, bv := -sxt, -syt
	u := (bu*syy - sxy*bv) / det
	v := (sxx*bv - sxy*bu) / det

	return Vector{
		DX: -clampDisplacement(u, o.MaxDisplacement),
		DY: -clampDisplacement(v, o.MaxDisplacement),
	}
}

func clampDisplacement(v float64, limit int) int {
	if math.IsNaN(v) {
		return 0
	}
	lim := float64(limit)
	return int(math.Max(-lim, math.Min(lim, math.Round(v))))
}
