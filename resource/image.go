package resource

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vulcan/core"
)

// Image is a host-side descriptor of a device image.
type Image struct {
	id          core.ResourceID
	handle      vk.Image
	format      vk.Format
	aspectMask  vk.ImageAspectFlags
	width       uint32
	height      uint32
	depth       uint32
	arrayLayers uint32
	mipLevels   uint32
}

func NewImage(handle vk.Image, format vk.Format, aspectMask vk.ImageAspectFlags,
	width, height, depth, arrayLayers, mipLevels uint32) *Image {
	return &Image{
		id:          core.NewResourceID(),
		handle:      handle,
		format:      format,
		aspectMask:  aspectMask,
		width:       width,
		height:      height,
		depth:       depth,
		arrayLayers: arrayLayers,
		mipLevels:   mipLevels,
	}
}

func (i *Image) ID() core.ResourceID {
	return i.id
}

func (i *Image) Handle() vk.Image {
	return i.handle
}

func (i *Image) Format() vk.Format {
	return i.format
}

func (i *Image) AspectMask() vk.ImageAspectFlags {
	return i.aspectMask
}

func (i *Image) HasColorAspect() bool {
	return i.aspectMask&vk.ImageAspectFlags(vk.ImageAspectColorBit) != 0
}

// Extent is the width, height and depth of the base mip level.
func (i *Image) Extent() [3]uint32 {
	return [3]uint32{i.width, i.height, i.depth}
}

func (i *Image) ArrayLayers() uint32 {
	return i.arrayLayers
}

func (i *Image) MipLevels() uint32 {
	return i.mipLevels
}
