package fractal

import "github.com/go-gl/mathgl/mgl32"

const (
	VertsPerCube   = 24
	IndicesPerCube = 36
	FloatsPerCube  = VertsPerCube * 4
)

// Face order of every emitted cube.
const (
	faceNegX = iota
	facePosX
	faceNegY
	facePosY
	faceNegZ
	facePosZ
)

var faceNormals = [6]mgl32.Vec3{
	faceNegX: {-1, 0, 0},
	facePosX: {1, 0, 0},
	faceNegY: {0, -1, 0},
	facePosY: {0, 1, 0},
	faceNegZ: {0, 0, -1},
	facePosZ: {0, 0, 1},
}

// EmitCube returns the geometry of one axis-aligned cube. Vertices are grouped
// four per face in the order -x, +x, -y, +y, -z, +z, and indices are offset by
// cube*VertsPerCube so consecutive cubes can share one vertex buffer.
// Bounds are not checked.
func EmitCube(lo, hi mgl32.Vec3, cube int) (positions [FloatsPerCube]float32, indices [IndicesPerCube]uint32, normals [FloatsPerCube]float32) {
	corners := [VertsPerCube]mgl32.Vec3{
		// -x
		{lo.X(), lo.Y(), hi.Z()},
		{lo.X(), hi.Y(), hi.Z()},
		{lo.X(), hi.Y(), lo.Z()},
		{lo.X(), lo.Y(), lo.Z()},
		// +x
		{hi.X(), lo.Y(), lo.Z()},
		{hi.X(), hi.Y(), lo.Z()},
		{hi.X(), hi.Y(), hi.Z()},
		{hi.X(), lo.Y(), hi.Z()},
		// -y
		{lo.X(), lo.Y(), hi.Z()},
		{lo.X(), lo.Y(), lo.Z()},
		{hi.X(), lo.Y(), lo.Z()},
		{hi.X(), lo.Y(), hi.Z()},
		// +y
		{lo.X(), hi.Y(), lo.Z()},
		{lo.X(), hi.Y(), hi.Z()},
		{hi.X(), hi.Y(), hi.Z()},
		{hi.X(), hi.Y(), lo.Z()},
		// -z
		{lo.X(), lo.Y(), lo.Z()},
		{lo.X(), hi.Y(), lo.Z()},
		{hi.X(), hi.Y(), lo.Z()},
		{hi.X(), lo.Y(), lo.Z()},
		// +z
		{hi.X(), lo.Y(), hi.Z()},
		{hi.X(), hi.Y(), hi.Z()},
		{lo.X(), hi.Y(), hi.Z()},
		{lo.X(), lo.Y(), hi.Z()},
	}

	for i, c := range corners {
		n := faceNormals[i/4]
		copy(positions[i*4:], []float32{c.X(), c.Y(), c.Z(), 1})
		copy(normals[i*4:], []float32{n.X(), n.Y(), n.Z(), 0})
	}

	base := uint32(cube * VertsPerCube)
	for face := range 6 {
		b := base + uint32(face*4)
		copy(indices[face*6:], []uint32{
			b, b + 1, b + 2,
			b + 2, b + 3, b,
		})
	}
	return positions, indices, normals
}
