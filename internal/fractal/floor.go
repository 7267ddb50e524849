package fractal

import "github.com/go-gl/mathgl/mgl32"

// Floor is a single quad in the y=0 plane. The checker pattern is drawn by
// the floor shader; ModelMatrix stretches the quad toward the horizon.
type Floor struct {
	dirty bool
}

var _ Mesh = (*Floor)(nil)

func NewFloor() *Floor { return &Floor{dirty: true} }

func (fl *Floor) IsDirty() bool { return fl.dirty }
func (fl *Floor) SetClean() { fl.dirty = false }

func (fl *Floor) PositionsFlat() []float32 {
	return []float32{
		-0.5, 0, -0.5, 1,
		-0.5, 0, 0.5, 1,
		0.5, 0, 0.5, 1,
		0.5, 0, -0.5, 1,
	}
}

func (fl *Floor) IndicesFlat() []uint32 {
	return []uint32{
		0, 1, 3,
		3, 1, 2,
	}
}

func (fl *Floor) NormalsFlat() []float32 {
	return []float32{
		0, 1, 0, 0,
		0, 1, 0, 0,
		0, 1, 0, 0,
		0, 1, 0, 0,
	}
}

// ModelMatrix scales the quad by 1000 and drops it to y=-2.
func (fl *Floor) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(0, -2, 0).Mul4(mgl32.Scale3D(1000, 1000, 1000))
}
