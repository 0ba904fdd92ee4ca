package capability

import (
	"context"
	"sync"
)

// MockIndicator records Show and Hide calls for testing.
type MockIndicator struct {
	mu    sync.Mutex
	Shown []string
	Hides int
}

func (m *MockIndicator) Show(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Shown = append(m.Shown, text)
}

func (m *MockIndicator) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Hides++
}

// MockSource returns fixed preferences, or Err when set.
type MockSource struct {
	Prefs Preferences
	Err   error
	Reads int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Read(ctx context.Context) (Preferences, error) {
	m.Reads++
	if m.Err != nil {
		return Preferences{}, m.Err
	}
	return m.Prefs, nil
}

// FocusProbeFunc adapts a function to FocusProbe.
type FocusProbeFunc func(ctx context.Context) bool

func (f FocusProbeFunc) FocusTrackingAvailable(ctx context.Context) bool {
	return f(ctx)
}

var (
	_ Indicator        = (*MockIndicator)(nil)
	_ Indicator        = (*LogIndicator)(nil)
	_ PreferenceSource = (*MockSource)(nil)
)
