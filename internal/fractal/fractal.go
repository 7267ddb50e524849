// Package fractal builds flat triangle buffers for recursive cube fractals
// (Menger sponge, Jerusalem cube) and the chess floor they stand on.
package fractal

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is what the presentation layer polls once per frame. When IsDirty
// reports true it re-uploads the three buffers and calls SetClean.
type Mesh interface {
	IsDirty() bool
	SetClean()
	PositionsFlat() []float32
	NormalsFlat() []float32
	IndicesFlat() []uint32
	ModelMatrix() mgl32.Mat4
}

var (
	canonicalMin = mgl32.Vec3{-0.5, -0.5, -0.5}
	canonicalMax = mgl32.Vec3{0.5, 0.5, 0.5}
)

// Fractal is a cube fractal whose geometry is rebuilt on every level change.
// Its buffers are never shared; the flat accessors return copies.
type Fractal struct {
	stencil Stencil

	level int
	built bool
	dirty bool

	cubes     int
	positions []float32
	indices   []uint32
	normals   []float32
}

var _ Mesh = (*Fractal)(nil)

// NewFractal builds st at level. The result starts dirty.
func NewFractal(st Stencil, level int) *Fractal {
	f := &Fractal{stencil: st}
	f.SetLevel(level)
	f.dirty = true
	return f
}

func NewMengerSponge(level int) *Fractal { return NewFractal(Menger, level) }
func NewJerusalemCube(level int) *Fractal { return NewFractal(Jerusalem, level) }
func (f *Fractal) Stencil() Stencil { return f.stencil }
func (f *Fractal) Level() int { return f.level }
func (f *Fractal) CubeCount() int { return f.cubes }
func (f *Fractal) IsDirty() bool { return f.dirty }
func (f *Fractal) SetClean() { f.dirty = false }
func (f *Fractal) ModelMatrix() mgl32.Mat4 { return mgl32.Ident4() }
func (f *Fractal) PositionsFlat() []float32 { return append([]float32(nil), f.positions...) }
func (f *Fractal) NormalsFlat() []float32 { return append([]float32(nil), f.normals...) }
func (f *Fractal) IndicesFlat() []uint32 { return append([]uint32(nil), f.indices...) }

// SetLevel rebuilds the geometry for level and marks the mesh dirty. Setting
// the current level again does nothing.
func (f *Fractal) SetLevel(level int) {
	if f.built && level == f.level {
		return
	}
	f.level = level
	log.Printf("setting %s level: %d", f.stencil.Name, level)
	f.build()
	f.dirty = true
}

// Remove drops all geometry and resets the level to 0. The next SetLevel
// rebuilds regardless of its argument.
func (f *Fractal) Remove() {
	f.level = 0
	f.built = false
	f.reset(0)
	f.dirty = true
}

// Bounds returns the axis-aligned box around every emitted vertex. An empty
// mesh reports zero vectors.
func (f *Fractal) Bounds() (lo, hi mgl32.Vec3) {
	if len(f.positions) == 0 {
		return lo, hi
	}
	lo = mgl32.Vec3{f.positions[0], f.positions[1], f.positions[2]}
	hi = lo
	for i := 0; i < len(f.positions); i += 4 {
		for axis := range 3 {
			v := f.positions[i+axis]
			lo[axis] = min(lo[axis], v)
			hi[axis] = max(hi[axis], v)
		}
	}
	return lo, hi
}

func (f *Fractal) reset(cubes int) {
	f.cubes = 0
	f.positions = make([]float32, 0, cubes*FloatsPerCube)
	f.normals = make([]float32, 0, cubes*FloatsPerCube)
	f.indices = make([]uint32, 0, cubes*IndicesPerCube)
}

func (f *Fractal) build() {
	f.reset(f.stencil.CubeCount(f.level))
	f.subdivide(canonicalMin, canonicalMax, f.level)
	f.built = true

	log.Printf("%s: %d cubes, positions %d, indices %d, normals %d",
		f.stencil.Name, f.cubes, len(f.positions), len(f.indices), len(f.normals))
}

func (f *Fractal) subdivide(lo, hi mgl32.Vec3, depth int) {
	if depth <= 1 {
		f.addCube(lo, hi)
		return
	}
	s := (hi.X() - lo.X()) / float32(f.stencil.Divisions)
	for _, c := range f.stencil.Cells {
		subMin := mgl32.Vec3{
			lo.X() + s*float32(c[0]),
			lo.Y() + s*float32(c[1]),
			lo.Z() + s*float32(c[2]),
		}
		subMax := mgl32.Vec3{
			lo.X() + s*float32(c[0]+1),
			lo.Y() + s*float32(c[1]+1),
			lo.Z() + s*float32(c[2]+1),
		}
		f.subdivide(subMin, subMax, depth-1)
	}
}

func (f *Fractal) addCube(lo, hi mgl32.Vec3) {
	pos, idx, norm := EmitCube(lo, hi, f.cubes)
	f.cubes++
	f.positions = append(f.positions, pos[:]...)
	f.indices = append(f.indices, idx[:]...)
	f.normals = append(f.normals, norm[:]...)
}
