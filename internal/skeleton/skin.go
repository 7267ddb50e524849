package skeleton

import "github.com/go-gl/mathgl/mgl32"

// MaxInfluences is the number of bones the skinning shader blends per vertex.
const MaxInfluences = 4

// Influence ties a vertex to one bone. Local is the rest-pose vertex
// expressed in that bone's joint frame.
type Influence struct {
	Bone   int
	Weight float32
	Local  mgl32.Vec4
}

// SkinVertex blends the first MaxInfluences influences as
// sum(weight * D[bone] * local). Weights are used as given.
func (s *Skeleton) SkinVertex(infl []Influence) mgl32.Vec3 {
	var sum mgl32.Vec3
	for i, in := range infl {
		if i == MaxInfluences {
			break
		}
		c := s.bones[in.Bone].D.Mul4x1(in.Local).Mul(in.Weight)
		sum = sum.Add(c.Vec3())
	}
	return sum
}

// Skin deforms every vertex and returns xyz triples.
func (s *Skeleton) Skin(verts [][]Influence) []float32 {
	out := make([]float32, 0, 3*len(verts))
	for _, infl := range verts {
		p := s.SkinVertex(infl)
		out = append(out, p[:]...)
	}
	return out
}

// Bind expresses a world-space point in the current frame of bone i, which
// is what an asset loader stores in Influence.Local for the rest pose.
func (s *Skeleton) Bind(i int, world mgl32.Vec3) mgl32.Vec4 {
	return s.bones[i].D.Inv().Mul4x1(world.Vec4(1))
}

// PackInfluences lays influences out as per-vertex attributes for the
// skinning shader: bone indices and weights as vec4, and one vec4 stream of
// local positions per influence slot. Unused slots get weight 0.
func PackInfluences(verts [][]Influence) (indices, weights []float32, locals [MaxInfluences][]float32) {
	indices = make([]float32, 0, 4*len(verts))
	weights = make([]float32, 0, 4*len(verts))
	for k := range locals {
		locals[k] = make([]float32, 0, 4*len(verts))
	}
	for _, infl := range verts {
		for k := range MaxInfluences {
			in := Influence{Local: mgl32.Vec4{0, 0, 0, 1}}
			if k < len(infl) {
				in = infl[k]
			}
			indices = append(indices, float32(in.Bone))
			weights = append(weights, in.Weight)
			locals[k] = append(locals[k], in.Local[:]...)
		}
	}
	return indices, weights, locals
}
