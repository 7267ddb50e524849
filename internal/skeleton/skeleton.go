// Package skeleton holds a bone hierarchy as a flat arena and derives the
// per-bone deformation matrices consumed by linear-blend skinning.
//
// Every bone carries three matrices:
//
//	T  incremental local rotation, accumulated by post-multiplication
//	B  rest-pose offset from the parent joint, fixed at load time
//	D  deformation, translate(position)*T for roots and parent.D*B*T otherwise
//
// Edits only touch positions, orientations and T. D goes stale until
// Recompute walks the arena parent-first.
package skeleton

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrParentOutOfRange = errors.New("skeleton: parent index out of range")
	ErrCycle            = errors.New("skeleton: bone is not reachable from a root")
)

// BoneSpec is one bone as produced by the asset loader, in world space.
// A negative Parent marks a root.
type BoneSpec struct {
	Parent   int
	Position mgl32.Vec3
	Endpoint mgl32.Vec3
	Rotation mgl32.Quat
}

type Bone struct {
	Parent   int
	Children []int

	// Current joint, endpoint and orientation in world space.
	Position mgl32.Vec3
	Endpoint mgl32.Vec3
	Rotation mgl32.Quat

	InitialPosition mgl32.Vec3
	InitialEndpoint mgl32.Vec3

	T mgl32.Mat4
	B mgl32.Mat4
	D mgl32.Mat4
}

func (b *Bone) IsRoot() bool { return b.Parent < 0 }

// Skeleton owns its bones. Indices into the arena are stable.
type Skeleton struct {
	bones []Bone
	order []int
	stale bool
}

// New builds the arena from specs and computes the rest-pose matrices.
func New(specs []BoneSpec) (*Skeleton, error) {
	s := &Skeleton{bones: make([]Bone, len(specs))}
	for i, in := range specs {
		if in.Parent >= len(specs) {
			return nil, fmt.Errorf("bone %d: parent %d: %w", i, in.Parent, ErrParentOutOfRange)
		}
		rot := in.Rotation
		if rot.Len() == 0 {
			rot = mgl32.QuatIdent()
		}
		s.bones[i] = Bone{
			Parent:          in.Parent,
			Position:        in.Position,
			Endpoint:        in.Endpoint,
			Rotation:        rot,
			InitialPosition: in.Position,
			InitialEndpoint: in.Endpoint,
			T:               mgl32.Ident4(),
		}
	}
	for i := range s.bones {
		if p := s.bones[i].Parent; p >= 0 {
			s.bones[p].Children = append(s.bones[p].Children, i)
		}
	}

	// Breadth-first from every root. Bones caught in a parent cycle are
	// never reached.
	s.order = make([]int, 0, len(s.bones))
	for i := range s.bones {
		if s.bones[i].IsRoot() {
			s.order = append(s.order, i)
		}
	}
	for next := 0; next < len(s.order); next++ {
		s.order = append(s.order, s.bones[s.order[next]].Children...)
	}
	if len(s.order) != len(s.bones) {
		reached := make([]bool, len(s.bones))
		for _, i := range s.order {
			reached[i] = true
		}
		for i, ok := range reached {
			if !ok {
				return nil, fmt.Errorf("bone %d: %w", i, ErrCycle)
			}
		}
	}

	for i := range s.bones {
		b := &s.bones[i]
		var parentPos mgl32.Vec3
		if !b.IsRoot() {
			parentPos = s.bones[b.Parent].Position
		}
		off := b.Position.Sub(parentPos)
		b.B = mgl32.Translate3D(off.X(), off.Y(), off.Z())
	}
	s.Recompute()
	return s, nil
}

func (s *Skeleton) Len() int { return len(s.bones) }

// Bone returns a copy of bone i.
func (s *Skeleton) Bone(i int) Bone {
	b := s.bones[i]
	b.Children = append([]int(nil), b.Children...)
	return b
}

func (s *Skeleton) D(i int) mgl32.Mat4 { return s.bones[i].D }

// Stale reports whether an edit happened since the last Recompute.
func (s *Skeleton) Stale() bool { return s.stale }

// Order is the parent-first visiting order used by Recompute.
func (s *Skeleton) Order() []int { return append([]int(nil), s.order...) }

func (s *Skeleton) Roots() []int {
	var roots []int
	for i := range s.bones {
		if s.bones[i].IsRoot() {
			roots = append(roots, i)
		}
	}
	return roots
}

// Axis is the unit direction from joint to endpoint.
func (s *Skeleton) Axis(i int) mgl32.Vec3 {
	b := &s.bones[i]
	return b.Endpoint.Sub(b.Position).Normalize()
}

// Length is the rest-pose length of bone i.
func (s *Skeleton) Length(i int) float32 {
	b := &s.bones[i]
	return b.InitialEndpoint.Sub(b.InitialPosition).Len()
}

// Recompute refreshes every D, parents before children.
func (s *Skeleton) Recompute() {
	for _, i := range s.order {
		b := &s.bones[i]
		if b.IsRoot() {
			b.D = mgl32.Translate3D(b.Position.X(), b.Position.Y(), b.Position.Z()).Mul4(b.T)
			continue
		}
		b.D = s.bones[b.Parent].D.Mul4(b.B).Mul4(b.T)
	}
	s.stale = false
}

// rotateAbout turns bone id and all of its descendants by q around pivot.
// Only bone id accumulates the rotation into its T; the descendants follow
// through the D chain once Recompute runs. For a non-root bone pivot must be
// its own joint, since D = parent.D*B*T pins the joint to the parent frame.
func (s *Skeleton) rotateAbout(id int, q mgl32.Quat, pivot mgl32.Vec3) {
	q = q.Normalize()
	stack := []int{id}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b := &s.bones[i]
		b.Rotation = q.Mul(b.Rotation)
		b.Position = q.Rotate(b.Position.Sub(pivot)).Add(pivot)
		b.Endpoint = q.Rotate(b.Endpoint.Sub(pivot)).Add(pivot)
		stack = append(stack, b.Children...)
	}
	s.bones[id].T = s.bones[id].T.Mul4(q.Mat4())
	s.stale = true
}

// Rotate turns bone id by radians around axis, pivoting on its own joint.
func (s *Skeleton) Rotate(id int, axis mgl32.Vec3, radians float32) {
	s.rotateAbout(id, mgl32.QuatRotate(radians, axis.Normalize()), s.bones[id].Position)
}

// Roll spins bone id around its own axis.
func (s *Skeleton) Roll(id int, radians float32, clockwise bool) {
	if radians < 0 {
		radians = -radians
	}
	if clockwise {
		radians = -radians
	}
	s.rotateAbout(id, mgl32.QuatRotate(radians, s.Axis(id)), s.bones[id].Position)
}

// DMatrices packs every D column-major, 16 floats per bone, for a uniform
// array upload.
func (s *Skeleton) DMatrices() []float32 {
	out := make([]float32, 0, 16*len(s.bones))
	for i := range s.bones {
		out = append(out, s.bones[i].D[:]...)
	}
	return out
}

// Segments returns joint/endpoint pairs for drawing the rig as lines.
func (s *Skeleton) Segments() []float32 {
	out := make([]float32, 0, 6*len(s.bones))
	for i := range s.bones {
		out = append(out, s.bones[i].Position[:]...)
		out = append(out, s.bones[i].Endpoint[:]...)
	}
	return out
}

// Pick returns the bone whose segment passes within radius of the ray
// origin + t*dir, t >= 0. When several do, the one met first along the ray
// wins.
func (s *Skeleton) Pick(origin, dir mgl32.Vec3, radius float32) (int, bool) {
	dir = dir.Normalize()
	best, bestT := -1, float32(math.MaxFloat32)
	for i := range s.bones {
		b := &s.bones[i]
		t, dist := rayToSegment(origin, dir, b.Position, b.Endpoint)
		if dist <= radius && t < bestT {
			best, bestT = i, t
		}
	}
	return best, best >= 0
}

// rayToSegment finds the closest approach between a ray with unit direction
// and the segment p..q. It returns the ray parameter and the distance.
func rayToSegment(origin, dir, p, q mgl32.Vec3) (t, dist float32) {
	seg := q.Sub(p)
	r := origin.Sub(p)
	e := seg.Dot(seg)
	b := dir.Dot(seg)
	c := dir.Dot(r)
	f := seg.Dot(r)

	var u float32
	if e > 0 {
		if denom := e - b*b; denom > 0 {
			t = max((b*f-c*e)/denom, 0)
		}
		u = (b*t + f) / e
		switch {
		case u < 0:
			u, t = 0, max(-c, 0)
		case u > 1:
			u, t = 1, max(b-c, 0)
		}
	} else {
		t = max(-c, 0)
	}
	closest := origin.Add(dir.Mul(t))
	return t, closest.Sub(p.Add(seg.Mul(u))).Len()
}
