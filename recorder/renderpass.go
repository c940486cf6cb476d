package recorder

import vk "github.com/goki/vulkan"

// renderPassState tracks render-pass and subpass progress while recording.
//
// Outside any render pass, inside is false. Inside, remaining counts the
// subpasses still to be advanced through: a pass declaring k subpasses
// starts at k-1, each NextSubpass decrements by exactly one, and the pass
// may only end at zero.
type renderPassState struct {
	inside    bool
	remaining uint32
	contents  vk.SubpassContents
}

func (s *renderPassState) begin(subpassCount uint32, contents vk.SubpassContents) error {
	if s.inside {
		return ErrForbiddenInsideRenderPass
	}
	s.inside = true
	s.remaining = subpassCount - 1
	s.contents = contents
	return nil
}

func (s *renderPassState) next(contents vk.SubpassContents) error {
	if !s.inside {
		return ErrForbiddenOutsideRenderPass
	}
	if s.remaining == 0 {
		return ErrNumSubpassesMismatch
	}
	s.remaining--
	s.contents = contents
	return nil
}

func (s *renderPassState) end() error {
	if !s.inside {
		return ErrForbiddenOutsideRenderPass
	}
	if s.remaining != 0 {
		return ErrNumSubpassesMismatch
	}
	s.inside = false
	return nil
}

func (s *renderPassState) ensureOutside() error {
	if s.inside {
		return ErrForbiddenInsideRenderPass
	}
	return nil
}

func (s *renderPassState) ensureInside(contents vk.SubpassContents) error {
	if !s.inside {
		return ErrForbiddenOutsideRenderPass
	}
	if s.contents != contents {
		return ErrWrongSubpassType
	}
	return nil
}
