package recorder

import (
	"errors"
	"testing"

	vk "github.com/goki/vulkan"
)

func TestRenderPassStateBeginNextEnd(t *testing.T) {
	var s renderPassState

	if err := s.begin(3, vk.SubpassContentsInline); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if s.remaining != 2 {
		t.Fatalf("remaining after begin = %d, want 2", s.remaining)
	}
	if err := s.next(vk.SubpassContentsInline); err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := s.next(vk.SubpassContentsSecondaryCommandBuffers); err != nil {
		t.Fatalf("next: %v", err)
	}
	if s.contents != vk.SubpassContentsSecondaryCommandBuffers {
		t.Error("next did not record the new subpass contents")
	}
	if err := s.end(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if s.inside {
		t.Error("still inside after end")
	}
}

func TestRenderPassStateCounterErrors(t *testing.T) {
	var s renderPassState

	if err := s.next(vk.SubpassContentsInline); !errors.Is(err, ErrForbiddenOutsideRenderPass) {
		t.Errorf("next outside = %v", err)
	}
	if err := s.end(); !errors.Is(err, ErrForbiddenOutsideRenderPass) {
		t.Errorf("end outside = %v", err)
	}

	if err := s.begin(1, vk.SubpassContentsInline); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.begin(1, vk.SubpassContentsInline); !errors.Is(err, ErrForbiddenInsideRenderPass) {
		t.Errorf("nested begin = %v", err)
	}
	if err := s.next(vk.SubpassContentsInline); !errors.Is(err, ErrNumSubpassesMismatch) {
		t.Errorf("next past last = %v", err)
	}

	var s2 renderPassState
	if err := s2.begin(2, vk.SubpassContentsInline); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s2.end(); !errors.Is(err, ErrNumSubpassesMismatch) {
		t.Errorf("early end = %v", err)
	}
}

func TestRenderPassStateEnsureInside(t *testing.T) {
	var s renderPassState

	if err := s.ensureInside(vk.SubpassContentsInline); !errors.Is(err, ErrForbiddenOutsideRenderPass) {
		t.Errorf("ensureInside outside = %v", err)
	}

	if err := s.begin(1, vk.SubpassContentsSecondaryCommandBuffers); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.ensureInside(vk.SubpassContentsInline); !errors.Is(err, ErrWrongSubpassType) {
		t.Errorf("inline command in a secondary-only subpass = %v", err)
	}
	if err := s.ensureInside(vk.SubpassContentsSecondaryCommandBuffers); err != nil {
		t.Errorf("matching contents = %v", err)
	}
}
