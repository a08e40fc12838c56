package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/agbru/limbcalc/internal/exact"
	"github.com/agbru/limbcalc/internal/limbs"
	"github.com/agbru/limbcalc/internal/sysmon"
	"github.com/agbru/limbcalc/internal/toom"
)

const (
	// CurrentProfileVersion changes whenever the profile layout or the
	// meaning of a threshold changes. Older profiles are ignored.
	CurrentProfileVersion = 1
	// DefaultProfileFileName is the file name under the user's home.
	DefaultProfileFileName = ".limbcalc_calibration.json"
	// DefaultMaxAge is how long a profile is trusted.
	DefaultMaxAge = 30 * 24 * time.Hour
)

// CalibrationProfile holds measured crossover points and the hardware they
// were measured on.
type CalibrationProfile struct {
	NumCPU          int               `json:"num_cpu"`
	GOARCH          string            `json:"goarch"`
	GOOS            string            `json:"goos"`
	GoVersion       string            `json:"go_version"`
	ProfileVersion  int               `json:"profile_version"`
	WordSize        int               `json:"word_size"`
	CPUFeatures     limbs.CPUFeatures `json:"cpu_features"`
	Host            sysmon.Host       `json:"host"`
	CalibratedAt    time.Time         `json:"calibrated_at"`
	Exact           exact.Thresholds  `json:"exact"`
	Toom            toom.Thresholds   `json:"toom"`
	Results         []SelectorResult  `json:"results,omitempty"`
	CalibrationTime string            `json:"calibration_time,omitempty"`
	Load            *sysmon.Stats     `json:"load,omitempty"`
}

// NewProfile returns a profile for the running machine holding the
// built-in thresholds.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		ProfileVersion: CurrentProfileVersion,
		WordSize:       limbs.W,
		CPUFeatures:    limbs.Features(),
		Host:           sysmon.Describe(),
		CalibratedAt:   time.Now(),
		Exact:          exact.DefaultThresholds(),
		Toom:           toom.DefaultThresholds(),
	}
}

// SaveProfile writes the profile as indented JSON, creating the parent
// directory when needed.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", path, err)
	}
	return &p, nil
}

// IsValid reports whether the profile was measured on this kind of machine
// and holds thresholds the engines accept.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == limbs.W &&
		p.CPUFeatures == limbs.Features() &&
		p.Exact.Validate() == nil &&
		p.Toom.Validate() == nil
}

// IsStale reports whether the profile is older than maxAge. A nil profile
// is stale.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

func (p *CalibrationProfile) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "profile v%d: %s/%s, %d CPUs, %d-bit limbs, %s, calibrated %s\n",
		p.ProfileVersion, p.GOOS, p.GOARCH, p.NumCPU, p.WordSize, p.CPUFeatures,
		p.CalibratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "  square: toom2=%d toom3=%d toom4=%d toom6=%d toom8=%s fft=%d parallel=%d\n",
		p.Toom.SqrToom2, p.Toom.SqrToom3, p.Toom.SqrToom4, p.Toom.SqrToom6,
		limitString(p.Toom.SqrToom8), p.Toom.SqrFFT, p.Toom.Parallel)
	fmt.Fprintf(&b, "  divide: dc_q=%d dc_qr=%d mu_q=%d mu_qr=%d binv_newton=%d",
		p.Exact.DCBdivQ, p.Exact.DCBdivQR, p.Exact.MuBdivQ, p.Exact.MuBdivQR, p.Exact.BinvNewton)
	return b.String()
}

// GetDefaultProfilePath returns the profile path in the home directory, or
// in the working directory when the home cannot be found.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// LoadOrCreateProfile loads the profile at path. When it is missing,
// unreadable or invalid for this machine a fresh profile is returned and
// loaded is false.
func LoadOrCreateProfile(path string) (profile *CalibrationProfile, loaded bool) {
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() {
		return NewProfile(), false
	}
	return p, true
}
