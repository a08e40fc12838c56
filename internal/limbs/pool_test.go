package limbs

import "testing"

func TestPoolIndex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 0},
		{64, 0},
		{65, 1},
		{256, 1},
		{257, 2},
		{4096, 3},
		{4194304, 8},
		{4194305, -1},
	}
	for _, tt := range tests {
		if got := poolIndex(tt.n); got != tt.want {
			t.Errorf("poolIndex(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestAcquireRelease(t *testing.T) {
	t.Parallel()
	s := AcquireDirty(100)
	for i := range s {
		s[i] = MaxLimb
	}
	Release(s)

	z := Acquire(100)
	defer Release(z)
	if len(z) != 100 {
		t.Fatalf("len = %d, want 100", len(z))
	}
	if !IsZero(z) {
		t.Error("Acquire must return a zeroed slice")
	}

	// Oversized and foreign slices are ignored.
	Release(make([]Word, 7))
	Release(nil)
}

func TestFeaturesString(t *testing.T) {
	t.Parallel()
	if got := (CPUFeatures{}).String(); got != "generic" {
		t.Errorf("empty features = %q", got)
	}
	if got := (CPUFeatures{BMI2: true, AVX2: true}).String(); got != "bmi2+avx2" {
		t.Errorf("features = %q", got)
	}
	t.Logf("running on %s", Features())
}

func BenchmarkAcquireRelease(b *testing.B) {
	for b.Loop() {
		s := AcquireDirty(3000)
		Release(s)
	}
}
