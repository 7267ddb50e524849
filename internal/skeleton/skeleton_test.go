package skeleton

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func assertVec3(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], tol, msgAndArgs...)
	}
}

func assertMat4(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	for i := range 16 {
		assert.InDelta(t, want[i], got[i], tol, "element %d", i)
	}
}

func assertQuat(t *testing.T, want, got mgl32.Quat) {
	t.Helper()
	assert.InDelta(t, want.W, got.W, tol)
	assertVec3(t, want.V, got.V)
}

func origin(m mgl32.Mat4) mgl32.Vec3 {
	return m.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
}

// twoBones is a root at (1,0,0) pointing up with one child stacked on top.
func twoBones(t *testing.T) *Skeleton {
	t.Helper()
	s, err := New([]BoneSpec{
		{Parent: -1, Position: mgl32.Vec3{1, 0, 0}, Endpoint: mgl32.Vec3{1, 1, 0}},
		{Parent: 0, Position: mgl32.Vec3{1, 1, 0}, Endpoint: mgl32.Vec3{1, 2, 0}},
	})
	require.NoError(t, err)
	return s
}

func TestRestPose(t *testing.T) {
	s := twoBones(t)
	require.Equal(t, 2, s.Len())
	assert.False(t, s.Stale())
	assert.Equal(t, []int{0}, s.Roots())
	assert.Equal(t, []int{1}, s.Bone(0).Children)

	assert.Equal(t, mgl32.Ident4(), s.Bone(0).T)
	assert.Equal(t, mgl32.Translate3D(0, 1, 0), s.Bone(1).B)

	assertVec3(t, mgl32.Vec3{1, 0, 0}, origin(s.D(0)))
	assertVec3(t, mgl32.Vec3{1, 1, 0}, origin(s.D(1)))
	assert.InDelta(t, 1, s.Length(1), tol)
	assertVec3(t, mgl32.Vec3{0, 1, 0}, s.Axis(0))
}

func TestRotateRootNeedsRecompute(t *testing.T) {
	s := twoBones(t)
	before := s.D(1)

	q := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1})
	s.rotateAbout(0, q, s.Bone(0).Position)

	// positions move immediately, D waits for the recompute pass
	assert.True(t, s.Stale())
	assert.Equal(t, before, s.D(1))
	assertVec3(t, mgl32.Vec3{0, 0, 0}, s.Bone(1).Position)
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, s.Bone(1).Endpoint)
	assertVec3(t, mgl32.Vec3{1, 0, 0}, s.Bone(0).Position)
	assertVec3(t, mgl32.Vec3{0, 0, 0}, s.Bone(0).Endpoint)

	s.Recompute()
	assert.False(t, s.Stale())

	root, child := s.Bone(0), s.Bone(1)
	chained := root.D.Mul4(child.B).Mul4(child.T)
	assertVec3(t, origin(chained), origin(child.D))
	assertVec3(t, child.Position, origin(child.D))

	// only the edited bone accumulates the rotation
	assert.Equal(t, mgl32.Ident4(), child.T)
	assertMat4(t, q.Mat4(), root.T)

	// orientation is propagated to the whole subtree
	assertQuat(t, q, child.Rotation)
}

func TestRotateChildKeepsParent(t *testing.T) {
	s := twoBones(t)
	s.Rotate(1, mgl32.Vec3{0, 0, 1}, math.Pi/2)
	s.Recompute()

	assertVec3(t, mgl32.Vec3{1, 0, 0}, origin(s.D(0)))
	assertVec3(t, mgl32.Vec3{1, 1, 0}, s.Bone(1).Position)
	assertVec3(t, mgl32.Vec3{0, 1, 0}, s.Bone(1).Endpoint)

	// the child's local y axis now points along -x
	tip := s.D(1).Mul4x1(mgl32.Vec4{0, 1, 0, 1}).Vec3()
	assertVec3(t, s.Bone(1).Endpoint, tip)
}

func TestIncrementalRotationsCompose(t *testing.T) {
	s := twoBones(t)
	for range 4 {
		s.Rotate(0, mgl32.Vec3{0, 0, 1}, math.Pi/8)
	}
	s.Recompute()

	want := mgl32.HomogRotate3D(math.Pi/2, mgl32.Vec3{0, 0, 1})
	assertMat4(t, want, s.Bone(0).T)
	assertVec3(t, s.Bone(1).Position, origin(s.D(1)))
}

func TestRollKeepsEndpoints(t *testing.T) {
	s := twoBones(t)
	s.Roll(0, -0.7, true)
	s.Recompute()

	assertVec3(t, mgl32.Vec3{1, 0, 0}, s.Bone(0).Position)
	assertVec3(t, mgl32.Vec3{1, 1, 0}, s.Bone(0).Endpoint)
	assertVec3(t, mgl32.Vec3{1, 2, 0}, s.Bone(1).Endpoint)

	want := mgl32.QuatRotate(-0.7, mgl32.Vec3{0, 1, 0})
	assertQuat(t, want, s.Bone(0).Rotation)
}

func TestPick(t *testing.T) {
	s := twoBones(t)
	back := mgl32.Vec3{0, 0, -1}

	id, ok := s.Pick(mgl32.Vec3{1, 0.5, 5}, back, 0.1)
	assert.True(t, ok)
	assert.Equal(t, 0, id)

	id, ok = s.Pick(mgl32.Vec3{1.05, 1.5, 5}, back, 0.1)
	assert.True(t, ok)
	assert.Equal(t, 1, id)

	_, ok = s.Pick(mgl32.Vec3{1.5, 0.5, 5}, back, 0.1)
	assert.False(t, ok)

	// pointing away from the rig
	_, ok = s.Pick(mgl32.Vec3{1, 0.5, 5}, back.Mul(-1), 0.1)
	assert.False(t, ok)

	// looking down the chain the child is met first
	id, ok = s.Pick(mgl32.Vec3{1, 5, 0}, mgl32.Vec3{0, -2, 0}, 0.1)
	assert.True(t, ok)
	assert.Equal(t, 1, id)
}

func TestPickFollowsRotation(t *testing.T) {
	s := twoBones(t)
	s.Rotate(0, mgl32.Vec3{0, 0, 1}, math.Pi/2)

	// the child now spans (0,0,0)..(-1,0,0)
	id, ok := s.Pick(mgl32.Vec3{-0.5, 0.05, 3}, mgl32.Vec3{0, 0, -1}, 0.1)
	assert.True(t, ok)
	assert.Equal(t, 1, id)

	_, ok = s.Pick(mgl32.Vec3{1, 1.5, 3}, mgl32.Vec3{0, 0, -1}, 0.1)
	assert.False(t, ok)
}

func TestParentFirstOrder(t *testing.T) {
	// children listed before their parents in the arena
	s, err := New([]BoneSpec{
		{Parent: 2, Position: mgl32.Vec3{0, 2, 0}, Endpoint: mgl32.Vec3{0, 3, 0}},
		{Parent: -1, Position: mgl32.Vec3{5, 0, 0}, Endpoint: mgl32.Vec3{5, 1, 0}},
		{Parent: 3, Position: mgl32.Vec3{0, 1, 0}, Endpoint: mgl32.Vec3{0, 2, 0}},
		{Parent: -1, Position: mgl32.Vec3{0, 0, 0}, Endpoint: mgl32.Vec3{0, 1, 0}},
	})
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, i := range s.Order() {
		if p := s.Bone(i).Parent; p >= 0 {
			assert.True(t, seen[p], "bone %d visited before its parent %d", i, p)
		}
		seen[i] = true
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, []int{1, 3}, s.Roots())

	s.Rotate(3, mgl32.Vec3{1, 0, 0}, math.Pi)
	s.Recompute()
	assertVec3(t, mgl32.Vec3{0, -2, 0}, s.Bone(0).Position)
	assertVec3(t, s.Bone(0).Position, origin(s.D(0)))
	assertVec3(t, mgl32.Vec3{5, 0, 0}, origin(s.D(1)))
}

func TestNewErrors(t *testing.T) {
	_, err := New([]BoneSpec{{Parent: 3}})
	assert.ErrorIs(t, err, ErrParentOutOfRange)

	_, err = New([]BoneSpec{
		{Parent: -1},
		{Parent: 2},
		{Parent: 1},
	})
	assert.ErrorIs(t, err, ErrCycle)

	_, err = New([]BoneSpec{{Parent: 0}})
	assert.ErrorIs(t, err, ErrCycle)

	s, err := New(nil)
	require.NoError(t, err)
	assert.Zero(t, s.Len())
	assert.Empty(t, s.DMatrices())
}

func TestPackedBuffers(t *testing.T) {
	s := twoBones(t)
	d := s.DMatrices()
	require.Len(t, d, 32)
	m := s.D(1)
	assert.Equal(t, m[:], d[16:])

	assert.Equal(t, []float32{1, 0, 0, 1, 1, 0, 1, 1, 0, 1, 2, 0}, s.Segments())
}
