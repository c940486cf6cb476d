// Package resource describes the device objects a command recording can
// reference: buffers, images, framebuffers, pipelines and descriptor sets.
//
// The types here are host-side descriptors. They carry the raw Vulkan handle
// plus the metadata the recorder needs for validation and state caching, and
// they are identified by a process-unique ResourceID so that "same resource"
// checks never have to compare values.
package resource

import "github.com/spaghettifunk/vulcan/core"

// Resource is anything a recorded command can keep alive.
type Resource interface {
	ID() core.ResourceID
}
