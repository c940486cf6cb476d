package recorder

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vulcan/core"
	"github.com/spaghettifunk/vulcan/resource"
)

// Access describes how a recorded command sequence touches a resource.
type Access struct {
	Stages    vk.PipelineStageFlags
	Access    vk.AccessFlags
	Exclusive bool
}

// AccessState qualifies an AccessOf answer.
type AccessState int

const (
	// AccessNone means no recorded command references the resource.
	AccessNone AccessState = iota
	// AccessKnown means the access is precisely tracked.
	AccessKnown
	// AccessConservative means the resource is reachable (for example
	// through a descriptor set), but the exact stages and access flags are
	// unknown; schedulers must assume the worst.
	AccessConservative
)

// accessSet accumulates per-resource access notes while recording.
type accessSet struct {
	known        map[core.ResourceID]Access
	conservative map[core.ResourceID]struct{}
}

func newAccessSet() accessSet {
	return accessSet{
		known:        make(map[core.ResourceID]Access),
		conservative: make(map[core.ResourceID]struct{}),
	}
}

func (s *accessSet) noteKnown(id core.ResourceID, stages vk.PipelineStageFlags, access vk.AccessFlags, exclusive bool) {
	a := s.known[id]
	a.Stages |= stages
	a.Access |= access
	a.Exclusive = a.Exclusive || exclusive
	s.known[id] = a
}

func (s *accessSet) noteConservative(id core.ResourceID) {
	s.conservative[id] = struct{}{}
}

// ExecutableBuffer is the immutable result of building a CommandRecorder.
// It owns every resource its commands reference until it is dropped, and it
// answers hazard queries for a submission scheduler ordering command buffers
// that touch overlapping resources.
type ExecutableBuffer struct {
	handle      vk.CommandBuffer
	queueFamily uint32
	resources   []resource.Resource
	accesses    accessSet
}

// Handle exposes the raw command buffer for submission.
func (b *ExecutableBuffer) Handle() vk.CommandBuffer {
	return b.handle
}

// QueueFamily is the family the buffer was recorded for.
func (b *ExecutableBuffer) QueueFamily() uint32 {
	return b.queueFamily
}

// AccessOf reports how the recorded commands touch res when executed on the
// given queue family. A query against a different family than the one the
// buffer was recorded for degrades every hit to conservative, since
// cross-family ownership transfer is not tracked here.
func (b *ExecutableBuffer) AccessOf(res resource.Resource, queueFamily uint32) (Access, AccessState) {
	if a, ok := b.accesses.known[res.ID()]; ok {
		if queueFamily != b.queueFamily {
			return Access{}, AccessConservative
		}
		return a, AccessKnown
	}
	if _, ok := b.accesses.conservative[res.ID()]; ok {
		return Access{}, AccessConservative
	}
	return Access{}, AccessNone
}
