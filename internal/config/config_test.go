package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------- ValidateConfigPath ----------

func TestValidateConfigPath_Valid(t *testing.T) {
	// Create a real configs/ directory so filepath.Abs resolves correctly.
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "default.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateConfigPath(path); err != nil {
		t.Errorf("expected valid path, got error: %v", err)
	}
}

func TestValidateConfigPath_PathTraversal(t *testing.T) {
	cases := []string{
		"../../etc/passwd",
		"configs/../../../etc/shadow",
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err == nil {
			t.Errorf("expected error for traversal path %q, got nil", path)
		}
	}
}

func TestValidateConfigPath_WrongExtension(t *testing.T) {
	cases := []string{
		"configs/default.json",
		"configs/default.yml",
		"configs/default.txt",
		"configs/default",
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err == nil {
			t.Errorf("expected error for extension in %q, got nil", path)
		}
	}
}

func TestValidateConfigPath_NotInConfigsDir(t *testing.T) {
	cases := []string{
		"other/default.yaml",
		"default.yaml",
		"/tmp/default.yaml",
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err == nil {
			t.Errorf("expected error for path outside configs/ %q, got nil", path)
		}
	}
}

func TestValidateConfigPath_EmptyPath(t *testing.T) {
	if err := ValidateConfigPath(""); err == nil {
		t.Error("expected error for empty path, got nil")
	}
}

func TestValidateConfigPath_VeryLongPath(t *testing.T) {
	long := "configs/" + strings.Repeat("a", 1000) + ".yaml"
	// Should not panic; error or success is OS-dependent, but must not crash.
	_ = ValidateConfigPath(long)
}

// ---------- Load ----------

// writeConfig creates a temporary configs/ dir with the given YAML content and returns the path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
slices:
  - label: "Prize A"
    color: "red"
  - label: "Prize B"
    color: "blue"
  - label: "Prize C"
    color: "green"
pin:
  symbol: "▼"
  color: "white"
spin_button:
  gpio_pin: 17
  pull_up: true
  debounce_ms: 40
sound:
  volume: 0.8
web:
  port: 8080
defaults:
  full_rotations: 13
  spin_duration_s: 5.0
  indefinite_spin_s: 3.0
  frame_rate: 30
  debug_level: 0
  mock_gpio: true
`

func TestLoad_ValidFullConfig(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Slices) != 3 {
		t.Fatalf("slices = %d, want 3", len(cfg.Slices))
	}
	if cfg.Slices[0].Label != "Prize A" || cfg.Slices[0].Color != "red" {
		t.Errorf("slice 0 = %+v, want Prize A/red", cfg.Slices[0])
	}
	if cfg.Pin == nil || cfg.Pin.Symbol != "▼" {
		t.Errorf("pin = %+v, want symbol ▼", cfg.Pin)
	}
	if cfg.SpinButton == nil || cfg.SpinButton.GPIOPin != 17 {
		t.Errorf("spin_button = %+v, want gpio_pin 17", cfg.SpinButton)
	}
	if !cfg.SpinButton.PullUp {
		t.Error("spin_button.pull_up should be true")
	}
	if cfg.Sound == nil || cfg.Sound.Volume != 0.8 {
		t.Errorf("sound = %+v, want volume 0.8", cfg.Sound)
	}
	if cfg.Web == nil || cfg.Web.Port != 8080 {
		t.Errorf("web = %+v, want port 8080", cfg.Web)
	}
	if cfg.Defaults.FullRotations != 13 {
		t.Errorf("full_rotations = %d, want 13", cfg.Defaults.FullRotations)
	}
}

func TestLoad_OptionalBlocksAbsent(t *testing.T) {
	yaml := `
slices:
  - label: "only"
`
	path := writeConfig(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pin != nil {
		t.Error("pin should be nil when absent")
	}
	if cfg.SpinButton != nil {
		t.Error("spin_button should be nil when absent")
	}
	if cfg.Sound != nil {
		t.Error("sound should be nil when absent")
	}
	if cfg.Web != nil {
		t.Error("web should be nil when absent")
	}
}

func TestLoad_NoSlices(t *testing.T) {
	yaml := `
defaults:
  debug_level: 1
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for empty slice list, got nil")
	}
}

func TestLoad_SliceWithoutLabel(t *testing.T) {
	yaml := `
slices:
  - color: "red"
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for slice without label, got nil")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	yaml := `
slices:
  - label: "a"
  - label: "b"
`
	path := writeConfig(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.FullRotations != 13 {
		t.Errorf("full_rotations default = %d, want 13", cfg.Defaults.FullRotations)
	}
	if cfg.Defaults.SpinDurationS != 5 {
		t.Errorf("spin_duration_s default = %v, want 5", cfg.Defaults.SpinDurationS)
	}
	if cfg.Defaults.IndefiniteSpinS != 3 {
		t.Errorf("indefinite_spin_s default = %v, want 3", cfg.Defaults.IndefiniteSpinS)
	}
	if cfg.Defaults.FrameRate != 30 {
		t.Errorf("frame_rate default = %d, want 30", cfg.Defaults.FrameRate)
	}
}

func TestLoad_NegativeRotations(t *testing.T) {
	yaml := `
slices:
  - label: "a"
defaults:
  full_rotations: -1
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for negative full_rotations, got nil")
	}
}

func TestLoad_FrameRateTooHigh(t *testing.T) {
	yaml := `
slices:
  - label: "a"
defaults:
  frame_rate: 240
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for frame_rate > 120, got nil")
	}
}

func TestLoad_InvalidDebugLevel(t *testing.T) {
	yaml := `
slices:
  - label: "a"
defaults:
  debug_level: 9
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for debug_level > 4, got nil")
	}
}

func TestLoad_SpinButtonWithoutPin(t *testing.T) {
	yaml := `
slices:
  - label: "a"
spin_button:
  pull_up: true
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for spin_button without gpio_pin, got nil")
	}
}

func TestLoad_SpinButtonDebounceDefault(t *testing.T) {
	yaml := `
slices:
  - label: "a"
spin_button:
  gpio_pin: 17
`
	path := writeConfig(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SpinButton.DebounceMs != 50 {
		t.Errorf("debounce_ms default = %d, want 50", cfg.SpinButton.DebounceMs)
	}
}

func TestLoad_SoundVolumeOutOfRange(t *testing.T) {
	yaml := `
slices:
  - label: "a"
sound:
  volume: 1.5
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for volume > 1, got nil")
	}
}

func TestLoad_WebPortOutOfRange(t *testing.T) {
	yaml := `
slices:
  - label: "a"
web:
  port: 70000
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for web.port > 65535, got nil")
	}
}

func TestLoad_FileTooLarge(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "big.yaml")
	data := make([]byte, MaxConfigFileBytes+1)
	for i := range data {
		data[i] = '#'
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for oversized config file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "{{{{invalid yaml!!!!")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeConfig(t, "")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for empty config (no slices), got nil")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "nonexistent.yaml")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for nonexistent file, got nil")
	}
}

// ---------- Helper methods ----------

func TestConfig_SpinDuration(t *testing.T) {
	cfg := &Config{Defaults: DefaultsConfig{SpinDurationS: 2.5}}
	if got, want := cfg.SpinDuration(), 2500*time.Millisecond; got != want {
		t.Errorf("SpinDuration() = %v, want %v", got, want)
	}
}

func TestConfig_IndefiniteSpinDelay(t *testing.T) {
	cfg := &Config{Defaults: DefaultsConfig{IndefiniteSpinS: 3}}
	if got, want := cfg.IndefiniteSpinDelay(), 3*time.Second; got != want {
		t.Errorf("IndefiniteSpinDelay() = %v, want %v", got, want)
	}
}

func TestConfig_FrameInterval(t *testing.T) {
	cases := []struct {
		fps  int
		want time.Duration
	}{
		{30, time.Second / 30},
		{60, time.Second / 60},
		{1, time.Second},
	}
	for _, tc := range cases {
		cfg := &Config{Defaults: DefaultsConfig{FrameRate: tc.fps}}
		if got := cfg.FrameInterval(); got != tc.want {
			t.Errorf("FrameInterval() at %d fps = %v, want %v", tc.fps, got, tc.want)
		}
	}
}

func TestSpinButtonConfig_Debounce(t *testing.T) {
	s := &SpinButtonConfig{DebounceMs: 40}
	if got, want := s.Debounce(), 40*time.Millisecond; got != want {
		t.Errorf("Debounce() = %v, want %v", got, want)
	}
}
