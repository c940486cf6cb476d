package resource

import "testing"

func TestClearValueKinds(t *testing.T) {
	if k := ClearColorF(0, 0, 0, 1).Kind(); k != ClearColorFloat {
		t.Errorf("float kind = %v", k)
	}
	if !ClearColorI(-1, 0, 0, 0).IsColor() {
		t.Error("int clear not recognized as color")
	}
	if !ClearColorU(1, 2, 3, 4).IsColor() {
		t.Error("uint clear not recognized as color")
	}
	if ClearDepthStencilValue(1, 0).IsColor() {
		t.Error("depth/stencil clear recognized as color")
	}

	c := ClearColorI(-5, 6, -7, 8).ColorInt()
	if c != [4]int32{-5, 6, -7, 8} {
		t.Errorf("int components = %v", c)
	}
	d, s := ClearDepthStencilValue(0.5, 3).DepthStencil()
	if d != 0.5 || s != 3 {
		t.Errorf("depth/stencil = %g, %d", d, s)
	}
}

func TestConvertClearValuesCopies(t *testing.T) {
	fb := NewFramebuffer(nil, nil, 1, 1, 1, 2)
	src := []ClearValue{ClearColorF(1, 0, 0, 1), ClearDepthStencilValue(1, 0)}

	got := fb.ConvertClearValues(src)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	// Mutating the caller's slice afterwards must not change the result.
	src[0] = ClearColorF(0, 1, 0, 1)
	if got[0].ColorFloat() != [4]float32{1, 0, 0, 1} {
		t.Error("converted clear values alias the caller's slice")
	}
}
