package vr

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"parallax/src/xr"
)

const (
	DefaultNear float32 = 0.05
	DefaultFar  float32 = 100.0
)

// ProjectionFromFov builds a projection matrix from four signed
// half-angles. The frustum is asymmetric in general; each eye of an
// HMD has its own off-center frustum.
func ProjectionFromFov(fov xr.Fovf, near, far float32) mgl32.Mat4 {
	tanLeft := math32.Tan(fov.AngleLeft)
	tanRight := math32.Tan(fov.AngleRight)
	tanUp := math32.Tan(fov.AngleUp)
	tanDown := math32.Tan(fov.AngleDown)

	tanWidth := tanRight - tanLeft
	tanHeight := tanUp - tanDown

	var m mgl32.Mat4
	m.Set(0, 0, 2/tanWidth)
	m.Set(0, 2, (tanRight+tanLeft)/tanWidth)
	m.Set(1, 1, 2/tanHeight)
	m.Set(1, 2, (tanUp+tanDown)/tanHeight)
	m.Set(2, 2, -(far+near)/(far-near))
	m.Set(2, 3, -(2*far*near)/(far-near))
	m.Set(3, 2, -1)
	return m
}

// ViewFromPose inverts an eye pose into a view matrix. The pose is the
// eye's rigid transform in the reference space; rendering needs the
// world-to-eye inverse.
func ViewFromPose(pose xr.Posef) mgl32.Mat4 {
	eye := mgl32.Translate3D(pose.Position.X(), pose.Position.Y(), pose.Position.Z()).
		Mul4(pose.Orientation.Mat4())
	return eye.Inv()
}

// ViewProjection combines one eye's located view into a single matrix
// for the renderer's push constant.
func ViewProjection(view xr.View, near, far float32) mgl32.Mat4 {
	return ProjectionFromFov(view.Fov, near, far).Mul4(ViewFromPose(view.Pose))
}
