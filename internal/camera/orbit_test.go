package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestEyeKeepsDistance(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{1, 2, 3}, 5)
	for _, d := range [][2]float32{{0, 0}, {40, -10}, {-300, 500}} {
		o.Drag(d[0], d[1])
		assert.InDelta(t, 5, o.Eye().Sub(o.Target).Len(), 1e-4)
		assert.InDelta(t, 1, o.Forward().Len(), 1e-5)
	}
}

func TestDragClampsPitch(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{}, 3)
	o.Drag(0, 1e6)
	assert.InDelta(t, maxPitch, o.Pitch, 1e-6)
	o.Drag(0, -1e6)
	assert.InDelta(t, -maxPitch, o.Pitch, 1e-6)
}

func TestZoomStopsAtMinimum(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{}, 3)
	o.Zoom(1)
	assert.Equal(t, float32(4), o.Distance)
	o.Zoom(-100)
	assert.Equal(t, float32(MinDistance), o.Distance)
}

func TestProjectTargetToCenter(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{0.5, 0, -1}, 4)
	mvp := o.Projection(800.0 / 600).Mul4(o.View())

	x, y, ok := Project(o.Target, mvp, 800, 600)
	assert.True(t, ok)
	assert.InDelta(t, 400, x, 1)
	assert.InDelta(t, 300, y, 1)

	// a point above the target lands above the center
	_, y, ok = Project(o.Target.Add(mgl32.Vec3{0, 0.5, 0}), mvp, 800, 600)
	assert.True(t, ok)
	assert.Less(t, y, 300)

	_, _, ok = Project(o.Eye().Sub(o.Forward()), mvp, 800, 600)
	assert.False(t, ok)
}

func TestProjectRejectsInsideNearPlane(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{}, 3)
	mvp := o.Projection(1).Mul4(o.View())

	_, _, ok := Project(o.Eye().Add(o.Forward().Mul(o.Near/2)), mvp, 64, 64)
	assert.False(t, ok)

	_, _, ok = Project(o.Eye().Add(o.Forward().Mul(o.Near*2)), mvp, 64, 64)
	assert.True(t, ok)
}

func TestRayThroughCenter(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{0.5, 0, -1}, 4)
	origin, dir := o.Ray(400, 300, 800, 600)

	assert.Equal(t, o.Eye(), origin)
	fwd := o.Forward()
	for i := range 3 {
		assert.InDelta(t, fwd[i], dir[i], 1e-4)
	}
}

func TestRayHitsProjectedPoint(t *testing.T) {
	o := NewOrbit(mgl32.Vec3{}, 4)
	p := mgl32.Vec3{0.3, 0.4, -0.2}
	x, y, ok := Project(p, o.Projection(800.0/600).Mul4(o.View()), 800, 600)
	assert.True(t, ok)

	origin, dir := o.Ray(float32(x)+0.5, float32(y)+0.5, 800, 600)
	// distance from p to the ray stays within a couple of pixels' worth
	toP := p.Sub(origin)
	miss := toP.Sub(dir.Mul(toP.Dot(dir))).Len()
	assert.Less(t, miss, float32(0.02))
}
