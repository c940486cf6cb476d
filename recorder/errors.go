package recorder

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"
)

// Context errors are raised when an operation is invoked in the wrong
// render-pass or recorder state. They are shared across all operations and
// can be matched with errors.Is through the per-operation wrappers.
var (
	ErrForbiddenInSecondary       = errors.New("operation forbidden in a secondary command recorder")
	ErrForbiddenInsideRenderPass  = errors.New("operation forbidden inside of a render pass")
	ErrForbiddenOutsideRenderPass = errors.New("operation forbidden outside of a render pass")
	ErrNumSubpassesMismatch       = errors.New("tried to end a render pass with subpasses remaining, or to advance past the last subpass")
	ErrWrongSubpassType           = errors.New("tried to record an inline command in a secondary-only subpass, or the other way around")
)

// ErrOutOfMemory is fatal and never retried.
var ErrOutOfMemory = errors.New("out of host or device memory")

// Explicitly unsupported cases, kept as typed errors rather than silently
// widened behavior.
var (
	// ErrUnsupportedImageAspect: buffer-to-image copies only target the
	// color aspect.
	ErrUnsupportedImageAspect = errors.New("copying to a non-color image aspect is not supported")
	// ErrUnsupportedWholeBufferUpdate: the payload of an inline update must
	// be strictly smaller than the destination buffer.
	ErrUnsupportedWholeBufferUpdate = errors.New("updating a buffer whose size does not exceed the payload is not supported")
)

// opError carries a failed operation's name alongside the violated
// precondition, so that errors.Is/As resolve through every per-operation
// wrapper to the shared context sentinels and validation types.
type opError struct {
	op  string
	err error
}

func (e *opError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *opError) Unwrap() error {
	return e.err
}

// Per-operation error wrappers. Every public operation fails with its own
// type wrapping either a context error, a validation error or an
// EncodingError.
type (
	BeginRenderPassError   struct{ opError }
	ClearColorImageError   struct{ opError }
	CopyBufferError        struct{ opError }
	CopyBufferToImageError struct{ opError }
	DispatchError          struct{ opError }
	DrawError              struct{ opError }
	DrawIndexedError       struct{ opError }
	DrawIndirectError      struct{ opError }
	FillBufferError        struct{ opError }
	UpdateBufferError      struct{ opError }
	BuildError             struct{ opError }
)

func beginRenderPassError(err error) error {
	return &BeginRenderPassError{opError{op: "begin render pass", err: err}}
}

func clearColorImageError(err error) error {
	return &ClearColorImageError{opError{op: "clear color image", err: err}}
}

func copyBufferError(err error) error {
	return &CopyBufferError{opError{op: "copy buffer", err: err}}
}

func copyBufferToImageError(err error) error {
	return &CopyBufferToImageError{opError{op: "copy buffer to image", err: err}}
}

func dispatchError(err error) error {
	return &DispatchError{opError{op: "dispatch", err: err}}
}

func drawError(err error) error {
	return &DrawError{opError{op: "draw", err: err}}
}

func drawIndexedError(err error) error {
	return &DrawIndexedError{opError{op: "draw indexed", err: err}}
}

func drawIndirectError(err error) error {
	return &DrawIndirectError{opError{op: "draw indirect", err: err}}
}

func fillBufferError(err error) error {
	return &FillBufferError{opError{op: "fill buffer", err: err}}
}

func updateBufferError(err error) error {
	return &UpdateBufferError{opError{op: "update buffer", err: err}}
}

func buildError(err error) error {
	return &BuildError{opError{op: "build", err: err}}
}

// EncodingError wraps a failure surfaced by the raw encoding layer.
type EncodingError struct {
	Cmd string
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s: %s", e.Cmd, e.Err.Error())
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// RangeError reports a layer or mip range outside the image bounds.
type RangeError struct {
	What  string
	First uint32
	Count uint32
	Max   uint32
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s range [%d, %d) exceeds bound %d", e.What, e.First, e.First+e.Count, e.Max)
}

// ContentMismatchError reports a copy between buffers of different element
// types.
type ContentMismatchError struct {
	SrcTag string
	DstTag string
}

func (e *ContentMismatchError) Error() string {
	return fmt.Sprintf("source content %q is not compatible with destination content %q", e.SrcTag, e.DstTag)
}

// UsageError reports a buffer missing a usage flag required by the
// operation.
type UsageError struct {
	What  string
	Usage vk.BufferUsageFlagBits
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s buffer is missing the required usage flag 0x%x", e.What, uint32(e.Usage))
}

// AlignmentError reports a size or offset that is not a multiple of the
// required alignment.
type AlignmentError struct {
	What      string
	Size      vk.DeviceSize
	Alignment vk.DeviceSize
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("%s size %d is not a multiple of %d", e.What, e.Size, e.Alignment)
}

// SizeError reports a size outside the permitted bound.
type SizeError struct {
	What string
	Size vk.DeviceSize
	Max  vk.DeviceSize
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s size %d exceeds bound %d", e.What, e.Size, e.Max)
}

// DispatchLimitError reports work group dimensions beyond the device limits.
type DispatchLimitError struct {
	Dim       int
	Requested uint32
	Limit     uint32
}

func (e *DispatchLimitError) Error() string {
	return fmt.Sprintf("work group count %d in dimension %d exceeds device limit %d", e.Requested, e.Dim, e.Limit)
}

// PushConstantError reports a declared push constant range not covered by
// the supplied payload.
type PushConstantError struct {
	Offset      uint32
	Size        uint32
	PayloadSize int
}

func (e *PushConstantError) Error() string {
	return fmt.Sprintf("push constant range [%d, %d) is not covered by the %d-byte payload", e.Offset, e.Offset+e.Size, e.PayloadSize)
}

// DescriptorSetError reports descriptor sets incompatible with the pipeline
// layout.
type DescriptorSetError struct {
	Set    int
	Reason string
}

func (e *DescriptorSetError) Error() string {
	return fmt.Sprintf("descriptor set %d: %s", e.Set, e.Reason)
}

// DynamicStateError reports requested dynamic state the pipeline does not
// allow, or missing dynamic state the pipeline requires.
type DynamicStateError struct {
	State  string
	Reason string
}

func (e *DynamicStateError) Error() string {
	return fmt.Sprintf("dynamic %s: %s", e.State, e.Reason)
}

// VertexBufferError reports vertex buffers that do not match the pipeline's
// vertex input layout.
type VertexBufferError struct {
	Binding int
	Reason  string
}

func (e *VertexBufferError) Error() string {
	return fmt.Sprintf("vertex buffer binding %d: %s", e.Binding, e.Reason)
}

// IndexBufferError reports an index buffer unusable for an indexed draw.
type IndexBufferError struct {
	Reason string
}

func (e *IndexBufferError) Error() string {
	return "index buffer: " + e.Reason
}
