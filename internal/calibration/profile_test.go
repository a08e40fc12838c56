package calibration

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/agbru/limbcalc/internal/exact"
	"github.com/agbru/limbcalc/internal/limbs"
	"github.com/agbru/limbcalc/internal/toom"
)

func TestNewProfile(t *testing.T) {
	t.Parallel()
	p := NewProfile()
	if p == nil {
		t.Fatal("NewProfile returned nil")
	}
	if p.NumCPU != runtime.NumCPU() || p.GOARCH != runtime.GOARCH || p.GOOS != runtime.GOOS {
		t.Errorf("host fields = %d %s %s", p.NumCPU, p.GOARCH, p.GOOS)
	}
	if p.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %s, want %s", p.GoVersion, runtime.Version())
	}
	if p.ProfileVersion != CurrentProfileVersion {
		t.Errorf("ProfileVersion = %d, want %d", p.ProfileVersion, CurrentProfileVersion)
	}
	if p.WordSize != 32<<(^uint(0)>>63) {
		t.Errorf("WordSize = %d", p.WordSize)
	}
	if p.CPUFeatures != limbs.Features() {
		t.Errorf("CPUFeatures = %v, want %v", p.CPUFeatures, limbs.Features())
	}
	if p.Exact != exact.DefaultThresholds() || p.Toom != toom.DefaultThresholds() {
		t.Error("new profile does not hold the built-in thresholds")
	}
	if p.CalibratedAt.IsZero() {
		t.Error("CalibratedAt is zero")
	}
}

func TestProfileSaveLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "profile.json")

	original := NewProfile()
	original.Toom.SqrToom3 = 77
	original.Exact.DCBdivQ = 90
	original.CalibrationTime = "1m30s"
	original.Results = []SelectorResult{{Name: "SqrToom3", Default: 93, Value: 77, Found: true,
		Samples: []Sample{{Size: 77, Below: 2 * time.Microsecond, Above: time.Microsecond}}}}

	if err := original.SaveProfile(path); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	loaded, err := loadProfile(path)
	if err != nil {
		t.Fatalf("loadProfile: %v", err)
	}
	if loaded.Toom != original.Toom || loaded.Exact != original.Exact {
		t.Errorf("thresholds changed in the round trip: %+v %+v", loaded.Toom, loaded.Exact)
	}
	if loaded.NumCPU != original.NumCPU || loaded.CPUFeatures != original.CPUFeatures {
		t.Error("hardware fields changed in the round trip")
	}
	if len(loaded.Results) != 1 || loaded.Results[0].Samples[0].Above != time.Microsecond {
		t.Errorf("results = %+v", loaded.Results)
	}
	if !loaded.IsValid() {
		t.Error("loaded profile is not valid")
	}
}

func TestProfileIsValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*CalibrationProfile)
		want   bool
	}{
		{"fresh", func(*CalibrationProfile) {}, true},
		{"wrong CPU count", func(p *CalibrationProfile) { p.NumCPU = 999 }, false},
		{"wrong architecture", func(p *CalibrationProfile) { p.GOARCH = "invalid_arch" }, false},
		{"wrong word size", func(p *CalibrationProfile) { p.WordSize = 16 }, false},
		{"wrong version", func(p *CalibrationProfile) { p.ProfileVersion = 999 }, false},
		{"other CPU features", func(p *CalibrationProfile) { p.CPUFeatures.AVX2 = !p.CPUFeatures.AVX2 }, false},
		{"unusable toom table", func(p *CalibrationProfile) { p.Toom.SqrToom3 = 1 }, false},
		{"unusable division table", func(p *CalibrationProfile) { p.Exact.MuBdivQ = p.Exact.DCBdivQ }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewProfile()
			tt.mutate(p)
			if got := p.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}

	var nilProfile *CalibrationProfile
	if nilProfile.IsValid() {
		t.Error("nil profile is valid")
	}
}

func TestProfileIsStale(t *testing.T) {
	t.Parallel()
	p := NewProfile()
	if p.IsStale(time.Hour) {
		t.Error("fresh profile is stale")
	}
	p.CalibratedAt = time.Now().Add(-2 * time.Hour)
	if !p.IsStale(time.Hour) {
		t.Error("old profile is not stale")
	}
	var nilProfile *CalibrationProfile
	if !nilProfile.IsStale(time.Hour) {
		t.Error("nil profile is not stale")
	}
}

func TestProfileString(t *testing.T) {
	t.Parallel()
	p := NewProfile()
	p.Toom.SqrToom4 = 321
	s := p.String()
	for _, want := range []string{runtime.GOARCH, "toom4=321", "dc_q=", "binv_newton="} {
		if !strings.Contains(s, want) {
			t.Errorf("String() lacks %q:\n%s", want, s)
		}
	}
}

func TestLoadProfileErrors(t *testing.T) {
	t.Parallel()
	if _, err := loadProfile("/nonexistent/path/to/profile.json"); err == nil {
		t.Error("expected an error for a missing profile")
	}
	path := filepath.Join(t.TempDir(), "invalid.json")
	if err := os.WriteFile(path, []byte("not valid json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadProfile(path); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestLoadOrCreateProfile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")

	p, loaded := LoadOrCreateProfile(path)
	if loaded || p == nil {
		t.Fatalf("missing file: loaded=%v profile=%v", loaded, p)
	}
	p.Toom.Parallel = 8192
	if err := p.SaveProfile(path); err != nil {
		t.Fatal(err)
	}
	p2, loaded := LoadOrCreateProfile(path)
	if !loaded || p2.Toom.Parallel != 8192 {
		t.Errorf("loaded=%v parallel=%d", loaded, p2.Toom.Parallel)
	}

	p2.NumCPU = runtime.NumCPU() + 1
	if err := p2.SaveProfile(path); err != nil {
		t.Fatal(err)
	}
	if _, loaded := LoadOrCreateProfile(path); loaded {
		t.Error("profile from other hardware was loaded")
	}
}

func TestGetDefaultProfilePath(t *testing.T) {
	t.Parallel()
	path := GetDefaultProfilePath()
	if filepath.Base(path) != DefaultProfileFileName {
		t.Errorf("path %s does not end with %s", path, DefaultProfileFileName)
	}
}
