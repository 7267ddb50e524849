package preview

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"mengercraft/internal/camera"
	"mengercraft/internal/fractal"
)

var red = color.RGBA{255, 0, 0, 255}

func countSet(img *image.RGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

func TestDrawLine(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	DrawLine(img, 0, 0, 9, 9, red)
	for i := range 10 {
		assert.Equal(t, red, img.RGBAAt(i, i))
	}
	assert.Equal(t, 10, countSet(img))
}

func TestDrawLineClipsAndHandlesPoints(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	DrawLine(img, -5, 1, 10, 1, red)
	assert.Equal(t, 4, countSet(img))

	img = image.NewRGBA(image.Rect(0, 0, 4, 4))
	DrawLine(img, 2, 2, 2, 2, red)
	assert.Equal(t, red, img.RGBAAt(2, 2))
	assert.Equal(t, 1, countSet(img))
}

func TestWireframeCube(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	cam := camera.NewOrbit(mgl32.Vec3{}, 3)
	vp := cam.Projection(1).Mul4(cam.View())

	drawn := Wireframe(img, fractal.NewMengerSponge(1), vp, red)
	assert.Equal(t, 36, drawn)

	// the outline straddles the view center
	lo, hi := image.Pt(64, 64), image.Pt(-1, -1)
	for y := range 64 {
		for x := range 64 {
			if img.RGBAAt(x, y) == red {
				lo.X, lo.Y = min(lo.X, x), min(lo.Y, y)
				hi.X, hi.Y = max(hi.X, x), max(hi.Y, y)
			}
		}
	}
	assert.Less(t, lo.X, 32)
	assert.Less(t, lo.Y, 32)
	assert.Greater(t, hi.X, 32)
	assert.Greater(t, hi.Y, 32)
}

func TestWireframeBehindCamera(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	cam := camera.NewOrbit(mgl32.Vec3{0, 0, -10}, 3)
	cam.Yaw, cam.Pitch = 0, 0
	vp := cam.Projection(1).Mul4(cam.View())

	assert.Zero(t, Wireframe(img, fractal.NewMengerSponge(1), vp, red))
	assert.Zero(t, countSet(img))
}

func TestDrawLineFarOffscreen(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	DrawLine(img, 2, -1<<30, 2, 3, red)
	assert.Equal(t, 4, countSet(img))
	for y := range 4 {
		assert.Equal(t, red, img.RGBAAt(2, y))
	}

	img = image.NewRGBA(image.Rect(0, 0, 4, 4))
	DrawLine(img, -1<<30, -1<<30, -1, -1<<30, red)
	assert.Zero(t, countSet(img))
}

func TestWireframeSkipsNearPlaneVertices(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	// the eye sits inside the cube, so corners behind it or at the near
	// plane drop their edges
	cam := camera.NewOrbit(mgl32.Vec3{}, 0.05)
	vp := cam.Projection(1).Mul4(cam.View())

	assert.Less(t, Wireframe(img, fractal.NewMengerSponge(1), vp, red), 36)
}

func TestLines(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	cam := camera.NewOrbit(mgl32.Vec3{}, 3)
	vp := cam.Projection(1).Mul4(cam.View())

	segs := []float32{0, 0, 0, 0, 1, 0, 0, 1, 0, 1, 1, 0, 9}
	assert.Equal(t, 2, Lines(img, segs, vp, red))
	assert.NotZero(t, countSet(img))
}
