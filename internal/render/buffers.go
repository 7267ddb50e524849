package render

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"mengercraft/internal/fractal"
	"mengercraft/internal/skeleton"
)

// MeshBuffers mirrors one fractal.Mesh on the GPU: a VAO with vec4
// positions and normals plus an element buffer.
type MeshBuffers struct {
	vao, posVBO, normVBO, ebo uint32
	count                     int32
}

// NewMeshBuffers binds the position and normal attributes of prog to
// fresh buffers. Nothing is uploaded until Sync.
func NewMeshBuffers(prog *Program, posAttrib, normAttrib string) *MeshBuffers {
	b := &MeshBuffers{}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.posVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.posVBO)
	loc := prog.Attrib(posAttrib)
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointer(loc, 4, gl.FLOAT, false, 4*4, gl.PtrOffset(0))

	gl.GenBuffers(1, &b.normVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.normVBO)
	loc = prog.Attrib(normAttrib)
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointer(loc, 4, gl.FLOAT, false, 4*4, gl.PtrOffset(0))

	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)

	gl.BindVertexArray(0)
	return b
}

// Sync re-uploads m when it reports dirty and marks it clean. It returns
// whether an upload happened.
func (b *MeshBuffers) Sync(m fractal.Mesh) bool {
	if !m.IsDirty() {
		return false
	}
	positions := m.PositionsFlat()
	normals := m.NormalsFlat()
	indices := m.IndicesFlat()

	gl.BindVertexArray(b.vao)
	uploadFloats(b.posVBO, positions)
	uploadFloats(b.normVBO, normals)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}
	gl.BindVertexArray(0)

	b.count = int32(len(indices))
	m.SetClean()
	return true
}

func (b *MeshBuffers) Draw() {
	if b.count == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawElements(gl.TRIANGLES, b.count, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (b *MeshBuffers) Delete() {
	gl.DeleteBuffers(1, &b.posVBO)
	gl.DeleteBuffers(1, &b.normVBO)
	gl.DeleteBuffers(1, &b.ebo)
	gl.DeleteVertexArrays(1, &b.vao)
}

// LineBuffers draws a dynamic list of xyz line segments.
type LineBuffers struct {
	vao, vbo uint32
	count    int32
}

func NewLineBuffers(prog *Program, posAttrib string) *LineBuffers {
	b := &LineBuffers{}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	loc := prog.Attrib(posAttrib)
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointer(loc, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))

	gl.BindVertexArray(0)
	return b
}

// Update replaces the segments; two xyz points per line.
func (b *LineBuffers) Update(points []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if len(points) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(points)*4, gl.Ptr(points), gl.DYNAMIC_DRAW)
	}
	b.count = int32(len(points) / 3)
}

func (b *LineBuffers) Draw() {
	if b.count == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.LINES, 0, b.count)
	gl.BindVertexArray(0)
}

func (b *LineBuffers) Delete() {
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
}

func uploadFloats(vbo uint32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

// SkinBuffers holds skinned vertices bound once to their bones. The vertex
// shader deforms them each frame from the D_mats uniform, so only the bone
// matrices change between frames.
type SkinBuffers struct {
	vao, ebo uint32
	vbos     []uint32
	count    int32
}

// NewSkinBuffers uploads verts as SkinVertexShader attributes and lines as
// pairs of vertex indices.
func NewSkinBuffers(prog *Program, verts [][]skeleton.Influence, lines []uint32) *SkinBuffers {
	indices, weights, locals := skeleton.PackInfluences(verts)
	streams := []struct {
		attrib string
		data   []float32
	}{
		{"skinIndices", indices},
		{"skinWeights", weights},
		{"v0", locals[0]},
		{"v1", locals[1]},
		{"v2", locals[2]},
		{"v3", locals[3]},
	}

	b := &SkinBuffers{vbos: make([]uint32, len(streams))}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(int32(len(b.vbos)), &b.vbos[0])
	for i, st := range streams {
		uploadFloats(b.vbos[i], st.data)
		loc := prog.Attrib(st.attrib)
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, 4, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	}

	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	if len(lines) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(lines)*4, gl.Ptr(lines), gl.STATIC_DRAW)
	}
	gl.BindVertexArray(0)

	b.count = int32(len(lines))
	return b
}

func (b *SkinBuffers) Draw() {
	if b.count == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawElements(gl.LINES, b.count, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (b *SkinBuffers) Delete() {
	gl.DeleteBuffers(int32(len(b.vbos)), &b.vbos[0])
	gl.DeleteBuffers(1, &b.ebo)
	gl.DeleteVertexArrays(1, &b.vao)
}
