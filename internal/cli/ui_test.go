package cli

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/limbcalc/internal/cli/mocks"
	"github.com/agbru/limbcalc/internal/orchestration"
)

// MockSpinner records calls without drawing.
type MockSpinner struct {
	mu      sync.Mutex
	started bool
	stopped bool
	suffix  string
}

func (m *MockSpinner) Start() { m.mu.Lock(); m.started = true; m.mu.Unlock() }

func (m *MockSpinner) Stop() { m.mu.Lock(); m.stopped = true; m.mu.Unlock() }

func (m *MockSpinner) UpdateSuffix(suffix string) { m.mu.Lock(); m.suffix = suffix; m.mu.Unlock() }

// These tests replace the package-level newSpinner and must not run in
// parallel.

func TestRealSpinner(t *testing.T) {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))
	rs := &realSpinner{s}
	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
}

func TestDisplayProgress(t *testing.T) {
	original := newSpinner
	defer func() { newSpinner = original }()
	mockS := &MockSpinner{}
	newSpinner = func(io.Writer, ...spinner.Option) Spinner { return mockS }

	var wg sync.WaitGroup
	wg.Add(1)
	ch := make(chan orchestration.ProgressUpdate)
	go func() {
		ch <- orchestration.ProgressUpdate{Index: 0, Value: 0.5}
		ch <- orchestration.ProgressUpdate{Index: 1, Value: 1}
		close(ch)
	}()
	var out bytes.Buffer
	DisplayProgress(&wg, ch, []string{"toom", "mathbig"}, &out)
	wg.Wait()

	if !mockS.started || !mockS.stopped {
		t.Errorf("spinner started=%v stopped=%v", mockS.started, mockS.stopped)
	}
	if !strings.Contains(mockS.suffix, "2 strategies") {
		t.Errorf("suffix = %q", mockS.suffix)
	}
	if !strings.Contains(out.String(), "75.0%") {
		t.Errorf("final line = %q", out.String())
	}
}

func TestDisplayProgressGomock(t *testing.T) {
	original := newSpinner
	defer func() { newSpinner = original }()
	ctrl := gomock.NewController(t)
	m := mocks.NewMockSpinner(ctrl)
	gomock.InOrder(
		m.EXPECT().UpdateSuffix(gomock.Any()),
		m.EXPECT().Start(),
	)
	m.EXPECT().UpdateSuffix(gomock.Any()).AnyTimes()
	m.EXPECT().Stop()
	newSpinner = func(io.Writer, ...spinner.Option) Spinner { return m }

	var wg sync.WaitGroup
	wg.Add(1)
	ch := make(chan orchestration.ProgressUpdate, 1)
	ch <- orchestration.ProgressUpdate{Index: 0, Value: 1}
	close(ch)
	DisplayProgress(&wg, ch, []string{"toom"}, io.Discard)
	wg.Wait()
}

func TestDisplayProgressNoStrategies(t *testing.T) {
	original := newSpinner
	defer func() { newSpinner = original }()
	newSpinner = func(io.Writer, ...spinner.Option) Spinner {
		t.Error("spinner created without strategies")
		return &MockSpinner{}
	}
	var wg sync.WaitGroup
	wg.Add(1)
	ch := make(chan orchestration.ProgressUpdate, 1)
	ch <- orchestration.ProgressUpdate{Value: 0.3}
	close(ch)
	DisplayProgress(&wg, ch, nil, io.Discard)
	wg.Wait()
}
