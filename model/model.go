// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package model turns the flat buffers produced by the resource loader
// into a mesh a pipeline can describe and draw.
package model

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/devblok/doteki/resource"
	glm "github.com/go-gl/mathgl/mgl32"
)

// package errors
var (
	ErrIndexRange = errors.New("index refers to a missing point")
	ErrLayout     = errors.New("buffer length does not match the vertex layout")
)

const scalarSize = uint32(unsafe.Sizeof(float32(0)))

// Attribute locations of the vertex layout
const (
	PositionLocation = 0
	ColorLocation    = 1
)

// Attribute describes one vertex attribute as float32 components
type Attribute struct {
	Location   uint32
	Components uint32
	Offset     uint32
}

// Layout describes how the flat point buffer is strided
type Layout struct {
	Stride     uint32
	Attributes []Attribute
}

// Mesh is a point cloud with a triangle index list, kept in the
// flat form it was loaded in. Every point is Dimensions position
// scalars followed by an RGB color.
type Mesh struct {
	Dimensions int
	Points     []float32
	Indices    []uint16
}

// NewMesh creates an empty mesh with points of the given dimensions
func NewMesh(dimensions int) *Mesh {
	return &Mesh{
		Dimensions: dimensions,
	}
}

// LoadMeshFile reads a geometry file into a new Mesh
func LoadMeshFile(path string, dimensions int) (*Mesh, error) {
	mesh := NewMesh(dimensions)
	if err := resource.LoadGeometry(path, &mesh.Points, &mesh.Indices, dimensions); err != nil {
		return nil, err
	}
	return mesh, nil
}

// LoadMesh reads a named geometry resource through loader into a new Mesh
func LoadMesh(loader *resource.Loader, name string, dimensions int) (*Mesh, error) {
	mesh := NewMesh(dimensions)
	if err := loader.Geometry(name, &mesh.Points, &mesh.Indices, dimensions); err != nil {
		return nil, err
	}
	return mesh, nil
}

// Width is the number of scalars per point
func (m *Mesh) Width() int {
	return m.Dimensions + resource.ColorComponents
}

// VertexCount is the number of points in the mesh
func (m *Mesh) VertexCount() int {
	if m.Dimensions < 1 {
		return 0
	}
	return len(m.Points) / m.Width()
}

// TriangleCount is the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / resource.IndexComponents
}

// Stride is the size of one point in bytes
func (m *Mesh) Stride() uint32 {
	return uint32(m.Width()) * scalarSize
}

// Layout returns the vertex layout of the point buffer:
// position at location 0, color at location 1.
func (m *Mesh) Layout() Layout {
	return Layout{
		Stride: m.Stride(),
		Attributes: []Attribute{
			{
				Location:   PositionLocation,
				Components: uint32(m.Dimensions),
				Offset:     0,
			},
			{
				Location:   ColorLocation,
				Components: resource.ColorComponents,
				Offset:     uint32(m.Dimensions) * scalarSize,
			},
		},
	}
}

// Position returns the position of point i. Components the mesh
// doesn't have are zero, extra ones are dropped.
func (m *Mesh) Position(i int) glm.Vec3 {
	var pos glm.Vec3
	point := m.point(i)
	for c := 0; c < m.Dimensions && c < 3; c++ {
		pos[c] = point[c]
	}
	return pos
}

// Color returns the color of point i
func (m *Mesh) Color(i int) glm.Vec3 {
	point := m.point(i)
	return glm.Vec3{point[m.Dimensions], point[m.Dimensions+1], point[m.Dimensions+2]}
}

func (m *Mesh) point(i int) []float32 {
	start := i * m.Width()
	return m.Points[start : start+m.Width()]
}

// Bounds returns the corners of the box enclosing all points.
// Both are zero for a mesh without points.
func (m *Mesh) Bounds() (min, max glm.Vec3) {
	count := m.VertexCount()
	if count == 0 {
		return
	}
	min = glm.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	max = glm.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for i := 0; i < count; i++ {
		pos := m.Position(i)
		for c := 0; c < 3; c++ {
			min[c] = float32(math.Min(float64(min[c]), float64(pos[c])))
			max[c] = float32(math.Max(float64(max[c]), float64(pos[c])))
		}
	}
	return
}

// Center returns the middle of the bounding box
func (m *Mesh) Center() glm.Vec3 {
	min, max := m.Bounds()
	return min.Add(max).Mul(0.5)
}

// Validate checks what the loader doesn't: that both buffers hold
// whole records and that every index names an existing point.
func (m *Mesh) Validate() error {
	if m.Dimensions < 1 {
		return fmt.Errorf("%w: dimensions %d", ErrLayout, m.Dimensions)
	}
	if len(m.Points)%m.Width() != 0 {
		return fmt.Errorf("%w: %d point scalars, %d per point", ErrLayout, len(m.Points), m.Width())
	}
	if len(m.Indices)%resource.IndexComponents != 0 {
		return fmt.Errorf("%w: %d indices", ErrLayout, len(m.Indices))
	}
	count := m.VertexCount()
	for i, index := range m.Indices {
		if int(index) >= count {
			return fmt.Errorf("%w: triangle %d index %d, %d points", ErrIndexRange, i/resource.IndexComponents, index, count)
		}
	}
	return nil
}
