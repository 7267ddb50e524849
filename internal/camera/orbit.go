// Package camera implements the mouse-driven orbit camera of the viewer.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// RotationSpeed is radians per pixel of mouse drag.
	RotationSpeed = 0.01
	MinDistance   = 0.5
	maxPitch      = math.Pi/2 - 0.01
)

// Orbit looks at Target from Distance away. Yaw turns around the world y
// axis and Pitch tilts toward it, both in radians.
type Orbit struct {
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32

	FOV       float32
	Near, Far float32
}

func NewOrbit(target mgl32.Vec3, distance float32) *Orbit {
	return &Orbit{
		Target:   target,
		Distance: distance,
		Yaw:      math.Pi / 4,
		Pitch:    math.Pi / 6,
		FOV:      mgl32.DegToRad(45),
		Near:     0.1,
		Far:      1000,
	}
}

// Eye is the camera position in world space.
func (o *Orbit) Eye() mgl32.Vec3 {
	cp := float32(math.Cos(float64(o.Pitch)))
	dir := mgl32.Vec3{
		cp * float32(math.Sin(float64(o.Yaw))),
		float32(math.Sin(float64(o.Pitch))),
		cp * float32(math.Cos(float64(o.Yaw))),
	}
	return o.Target.Add(dir.Mul(o.Distance))
}

// Forward is the unit view direction.
func (o *Orbit) Forward() mgl32.Vec3 {
	return o.Target.Sub(o.Eye()).Normalize()
}

// Drag orbits by a mouse delta in pixels. Pitch stops short of the poles.
func (o *Orbit) Drag(dx, dy float32) {
	o.Yaw -= dx * RotationSpeed
	o.Pitch += dy * RotationSpeed
	o.Pitch = mgl32.Clamp(o.Pitch, -maxPitch, maxPitch)
}

func (o *Orbit) Zoom(delta float32) {
	o.Distance = max(o.Distance+delta, MinDistance)
}

func (o *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(o.Eye(), o.Target, mgl32.Vec3{0, 1, 0})
}

func (o *Orbit) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(o.FOV, aspect, o.Near, o.Far)
}

// Ray returns the world-space ray through pixel (x, y) of a width by height
// viewport, starting at the eye.
func (o *Orbit) Ray(x, y float32, width, height int) (origin, dir mgl32.Vec3) {
	ndcX := 2*x/float32(width) - 1
	ndcY := 1 - 2*y/float32(height)

	inv := o.Projection(float32(width) / float32(height)).Mul4(o.View()).Inv()
	near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	from := near.Vec3().Mul(1 / near.W())
	to := far.Vec3().Mul(1 / far.W())
	return o.Eye(), to.Sub(from).Normalize()
}

// Project maps a world point through mvp to pixel coordinates with y
// growing downward. ok is false for points in front of the near plane or
// behind the camera.
func Project(p mgl32.Vec3, mvp mgl32.Mat4, width, height int) (x, y int, ok bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 || clip.Z() < -clip.W() {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x = int((ndc.X() + 1) / 2 * float32(width))
	y = int((1 - ndc.Y()) / 2 * float32(height))
	return x, y, true
}
