package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultLimitsAreVulkanMinimums(t *testing.T) {
	limits := DefaultLimits()

	if limits.MaxPushConstantsSize != 128 {
		t.Errorf("MaxPushConstantsSize = %d, want 128", limits.MaxPushConstantsSize)
	}
	if limits.MaxBoundDescriptorSets != 4 {
		t.Errorf("MaxBoundDescriptorSets = %d, want 4", limits.MaxBoundDescriptorSets)
	}
	if limits.MaxComputeWorkGroupCount != [3]uint32{65535, 65535, 65535} {
		t.Errorf("MaxComputeWorkGroupCount = %v", limits.MaxComputeWorkGroupCount)
	}
	if limits.LineWidthRange != [2]float32{1, 1} {
		t.Errorf("LineWidthRange = %v, want [1, 1]", limits.LineWidthRange)
	}
}

func TestLoadLimitsOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.toml")
	profile := `
max_push_constants_size = 256
line_width_range = [0.5, 8.0]
`
	if err := os.WriteFile(path, []byte(profile), 0o644); err != nil {
		t.Fatal(err)
	}

	limits, err := LoadLimits(path)
	if err != nil {
		t.Fatalf("LoadLimits: %v", err)
	}
	if limits.MaxPushConstantsSize != 256 {
		t.Errorf("MaxPushConstantsSize = %d, want 256", limits.MaxPushConstantsSize)
	}
	if limits.LineWidthRange != [2]float32{0.5, 8.0} {
		t.Errorf("LineWidthRange = %v", limits.LineWidthRange)
	}
	// Untouched fields keep their defaults.
	if limits.MaxBoundDescriptorSets != 4 {
		t.Errorf("MaxBoundDescriptorSets = %d, want the default 4", limits.MaxBoundDescriptorSets)
	}
}

func TestLoadLimitsMissingFile(t *testing.T) {
	if _, err := LoadLimits(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("LoadLimits on a missing file succeeded")
	}
}

func TestLoadLimitsMalformedProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.toml")
	if err := os.WriteFile(path, []byte("max_push_constants_size = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLimits(path); err == nil {
		t.Fatal("LoadLimits on a malformed file succeeded")
	}
}

func TestWatchLimitsReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.toml")
	if err := os.WriteFile(path, []byte("max_viewports = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *DeviceLimits, 1)
	w, err := WatchLimits(path, func(limits *DeviceLimits, err error) {
		if err != nil {
			t.Errorf("reload: %v", err)
			return
		}
		select {
		case reloaded <- limits:
		default:
		}
	})
	if err != nil {
		t.Fatalf("WatchLimits: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("max_viewports = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case limits := <-reloaded:
		if limits.MaxViewports != 8 {
			t.Errorf("MaxViewports = %d, want 8", limits.MaxViewports)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
	}
}

func TestWatcherDoubleClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := WatchLimits(path, func(*DeviceLimits, error) {})
	if err != nil {
		t.Fatalf("WatchLimits: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := w.Close(); err == nil {
		t.Error("second Close succeeded, want an error")
	}
}
