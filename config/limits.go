// Package config holds the device-limits profile the recorder validates
// against. The defaults are the minimums the Vulkan specification guarantees
// on every conformant device; a profile file can widen them to match the
// device actually in use.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DeviceLimits is the subset of VkPhysicalDeviceLimits that recording-time
// validation consults.
type DeviceLimits struct {
	MaxComputeWorkGroupCount [3]uint32  `toml:"max_compute_work_group_count"`
	MaxPushConstantsSize     uint32     `toml:"max_push_constants_size"`
	MaxBoundDescriptorSets   uint32     `toml:"max_bound_descriptor_sets"`
	MaxViewports             uint32     `toml:"max_viewports"`
	MaxImageArrayLayers      uint32     `toml:"max_image_array_layers"`
	MaxUpdateBufferSize      uint32     `toml:"max_update_buffer_size"`
	LineWidthRange           [2]float32 `toml:"line_width_range"`
}

// DefaultLimits returns the Vulkan guaranteed minimums.
func DefaultLimits() *DeviceLimits {
	return &DeviceLimits{
		MaxComputeWorkGroupCount: [3]uint32{65535, 65535, 65535},
		MaxPushConstantsSize:     128,
		MaxBoundDescriptorSets:   4,
		MaxViewports:             16,
		MaxImageArrayLayers:      256,
		// vkCmdUpdateBuffer is capped at 64KiB by the spec itself.
		MaxUpdateBufferSize: 65536,
		LineWidthRange:      [2]float32{1.0, 1.0},
	}
}

// LoadLimits reads a TOML profile from path. Fields absent from the file
// keep their default values.
func LoadLimits(path string) (*DeviceLimits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read limits profile %s: %w", path, err)
	}
	limits := DefaultLimits()
	if err := toml.Unmarshal(data, limits); err != nil {
		return nil, fmt.Errorf("failed to parse limits profile %s: %w", path, err)
	}
	return limits, nil
}
