// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/devblok/doteki/model"
)

var floatFormats = [...]wgpu.VertexFormat{
	1: wgpu.VertexFormatFloat32,
	2: wgpu.VertexFormatFloat32x2,
	3: wgpu.VertexFormatFloat32x3,
	4: wgpu.VertexFormatFloat32x4,
}

// VertexBufferLayout describes the point buffer of a mesh with layout
// to a render pipeline.
func VertexBufferLayout(layout model.Layout) wgpu.VertexBufferLayout {
	attributes := make([]wgpu.VertexAttribute, 0, len(layout.Attributes))
	for _, attr := range layout.Attributes {
		format := wgpu.VertexFormatUndefined
		if int(attr.Components) < len(floatFormats) {
			format = floatFormats[attr.Components]
		}
		attributes = append(attributes, wgpu.VertexAttribute{
			Format:         format,
			Offset:         uint64(attr.Offset),
			ShaderLocation: attr.Location,
		})
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(layout.Stride),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}
}

// IndexFormat is the format of mesh index buffers
const IndexFormat = wgpu.IndexFormatUint16
