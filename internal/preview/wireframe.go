// Package preview renders meshes as wireframes into an image without a GPU.
package preview

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"mengercraft/internal/camera"
	"mengercraft/internal/fractal"
)

// DrawLine draws a line on the image from (x1, y1) to (x2, y2) using a DDA
// walk. The segment is clipped to the image first, so off-screen endpoints
// cost nothing.
func DrawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	fx1, fy1, fx2, fy2, ok := clipLine(float64(x1), float64(y1), float64(x2), float64(y2), img.Bounds())
	if !ok {
		return
	}
	dx := fx2 - fx1
	dy := fy2 - fy1
	steps := math.Round(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		setPixel(img, int(math.Round(fx1)), int(math.Round(fy1)), col)
		return
	}

	xInc := dx / steps
	yInc := dy / steps

	x := fx1
	y := fy1

	for i := 0; i <= int(steps); i++ {
		setPixel(img, int(math.Round(x)), int(math.Round(y)), col)
		x += xInc
		y += yInc
	}
}

// clipLine trims a segment to the pixel centers of r (Liang-Barsky).
func clipLine(x1, y1, x2, y2 float64, r image.Rectangle) (float64, float64, float64, float64, bool) {
	if r.Empty() {
		return 0, 0, 0, 0, false
	}
	dx, dy := x2-x1, y2-y1
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x1 - float64(r.Min.X)},
		{dx, float64(r.Max.X-1) - x1},
		{-dy, y1 - float64(r.Min.Y)},
		{dy, float64(r.Max.Y-1) - y1},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, t)
		}
	}
	return x1 + t0*dx, y1 + t0*dy, x1 + t1*dx, y1 + t1*dy, true
}

func setPixel(img *image.RGBA, x, y int, col color.RGBA) {
	if !(image.Point{x, y}.In(img.Bounds())) {
		return
	}
	offset := img.PixOffset(x, y)
	img.Pix[offset] = col.R
	img.Pix[offset+1] = col.G
	img.Pix[offset+2] = col.B
	img.Pix[offset+3] = col.A
}

// Wireframe draws every triangle edge of m. viewProj is combined with the
// mesh's own model matrix. Edges with an endpoint outside the view frustum's
// near side are skipped. It returns the number of edges drawn.
func Wireframe(img *image.RGBA, m fractal.Mesh, viewProj mgl32.Mat4, col color.RGBA) int {
	mvp := viewProj.Mul4(m.ModelMatrix())
	pos := m.PositionsFlat()
	idx := m.IndicesFlat()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	vertex := func(i uint32) mgl32.Vec3 {
		return mgl32.Vec3{pos[i*4], pos[i*4+1], pos[i*4+2]}
	}

	drawn := 0
	for t := 0; t+2 < len(idx); t += 3 {
		tri := [3]uint32{idx[t], idx[t+1], idx[t+2]}
		for e := range 3 {
			if drawEdge(img, vertex(tri[e]), vertex(tri[(e+1)%3]), mvp, w, h, col) {
				drawn++
			}
		}
	}
	return drawn
}

// Lines draws xyz point pairs, such as bone segments, through viewProj. It
// returns the number of segments drawn.
func Lines(img *image.RGBA, points []float32, viewProj mgl32.Mat4, col color.RGBA) int {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	drawn := 0
	for i := 0; i+5 < len(points); i += 6 {
		a := mgl32.Vec3{points[i], points[i+1], points[i+2]}
		b := mgl32.Vec3{points[i+3], points[i+4], points[i+5]}
		if drawEdge(img, a, b, viewProj, w, h, col) {
			drawn++
		}
	}
	return drawn
}

func drawEdge(img *image.RGBA, a, b mgl32.Vec3, mvp mgl32.Mat4, w, h int, col color.RGBA) bool {
	x1, y1, ok1 := camera.Project(a, mvp, w, h)
	x2, y2, ok2 := camera.Project(b, mvp, w, h)
	if !ok1 || !ok2 {
		return false
	}
	DrawLine(img, x1, y1, x2, y2, col)
	return true
}
