// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"github.com/devblok/doteki/model"
	vk "github.com/vulkan-go/vulkan"
)

var floatFormats = [...]vk.Format{
	1: vk.FormatR32Sfloat,
	2: vk.FormatR32g32Sfloat,
	3: vk.FormatR32g32b32Sfloat,
	4: vk.FormatR32g32b32a32Sfloat,
}

// VertexBindingDescriptions return Vulkan Vertex descriptors for layout
func VertexBindingDescriptions(layout model.Layout) []vk.VertexInputBindingDescription {
	return []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    layout.Stride,
		InputRate: vk.VertexInputRateVertex,
	}}
}

// VertexAttributeDescriptions return Vulkan attribute descriptors for layout.
// Attributes wider than four components are left undefined.
func VertexAttributeDescriptions(layout model.Layout) []vk.VertexInputAttributeDescription {
	descriptions := make([]vk.VertexInputAttributeDescription, 0, len(layout.Attributes))
	for _, attr := range layout.Attributes {
		format := vk.FormatUndefined
		if int(attr.Components) < len(floatFormats) {
			format = floatFormats[attr.Components]
		}
		descriptions = append(descriptions, vk.VertexInputAttributeDescription{
			Binding:  0,
			Location: attr.Location,
			Format:   format,
			Offset:   attr.Offset,
		})
	}
	return descriptions
}
