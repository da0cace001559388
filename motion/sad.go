package motion

import "math"

// estimateBlockSAD searches offsets in [-SearchRange, SearchRange] with
// SearchStep spacing, dy outer and dx inner, both ascending. Sample pairs that
// fall outside the previous frame are skipped, so edge candidates are scored on
// fewer samples. The strict comparison keeps the first candidate on ties.
func estimateBlockSAD(cur, prev []float32, g Grid, bx, by int, o Options) Vector {
	r := g.BlockBounds(bx, by)
	w, h := g.Width, g.Height
	step := o.SearchStep
	sr := g.SearchRange

	best := Vector{}
	bestSAD := float32(math.Inf(1))

	for dy := -sr; dy <= sr; dy += step {
		for dx := -sr; dx <= sr; dx += step {
			var sad float32
			for y := r.Min.Y; y < r.Max.Y; y++ {
				ry := y + dy
				if ry < 0 || ry >= h {
					continue
				}
				curRow := cur[y*w : (y+1)*w]
				prevRow := prev[ry*w : (ry+1)*w]
				for x := r.Min.X; x < r.Max.X; x++ {
					rx := x + dx
					if rx < 0 || rx >= w {
						continue
					}
					d := curRow[x] - prevRow[rx]
					if d < 0 {
						d = -d
					}
					sad += d
				}
			}
			if sad < bestSAD {
				bestSAD = sad
				best = Vector{DX: dx, DY: dy}
			}
		}
	}
	return best
}
