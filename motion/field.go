package motion

import "fmt"

// Vector is a signed integer block displacement. A block at destination
// (x, y) reads its pixels from the source at (x+DX, y+DY).
type Vector struct {
	DX int
	DY int
}

// IsZero reports whether v is the zero displacement.
func (v Vector) IsZero() bool {
	return v.DX == 0 && v.DY == 0
}

// Field is the per-block displacement grid for one frame pair, indexed
// by*BlocksX+bx. Invariant: len(Vectors) == BlocksX*BlocksY.
type Field struct {
	BlocksX   int
	BlocksY   int
	BlockSize int
	Vectors   []Vector
}

// NewField allocates a zero field for g.
func NewField(g Grid) *Field {
	return &Field{
		BlocksX:   g.BlocksX,
		BlocksY:   g.BlocksY,
		BlockSize: g.BlockSize,
		Vectors:   make([]Vector, g.Blocks()),
	}
}

// Index returns the position of block (bx, by) in Vectors.
func (f *Field) Index(bx, by int) int {
	return by*f.BlocksX + bx
}

// At returns the displacement of block (bx, by).
func (f *Field) At(bx, by int) Vector {
	return f.Vectors[f.Index(bx, by)]
}

// Set stores the displacement of block (bx, by).
func (f *Field) Set(bx, by int, v Vector) {
	f.Vectors[f.Index(bx, by)] = v
}

// Validate checks the length invariant.
func (f *Field) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil field", ErrInvalidField)
	}
	if f.BlockSize <= 0 || f.BlocksX <= 0 || f.BlocksY <= 0 {
		return fmt.Errorf("%w: %dx%d blocks of %d", ErrInvalidField, f.BlocksX, f.BlocksY, f.BlockSize)
	}
	if len(f.Vectors) != f.BlocksX*f.BlocksY {
		return fmt.Errorf("%w: %d vectors for %dx%d blocks", ErrInvalidField, len(f.Vectors), f.BlocksX, f.BlocksY)
	}
	return nil
}

// Covers reports whether the field's block grid tiles a width x height frame.
func (f *Field) Covers(width, height int) bool {
	if f.BlockSize <= 0 {
		return false
	}
	return f.BlocksX == (width+f.BlockSize-1)/f.BlockSize &&
		f.BlocksY == (height+f.BlockSize-1)/f.BlockSize
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	c := *f
	c.Vectors = append([]Vector(nil), f.Vectors...)
	return &c
}
