package host

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MockHost is an in-memory Session for testing.
type MockHost struct {
	mu sync.RWMutex

	windows  map[WindowID]*Window
	count    int
	active   int
	focused  int
	tracking bool

	workspaceHandlers map[int]func()
	focusHandlers     map[int]func(int)
	keys              map[string]func()
	nextHandler       int

	// Errors allows injecting errors for specific operations
	Errors map[string]error

	// MoveErrors fails MoveToWorkspace for individual windows
	MoveErrors map[WindowID]error

	// CallLog records all method calls for verification
	CallLog []MockCall

	// UseAfterClose lists the methods called on the session after Close.
	UseAfterClose []string

	closed bool
}

// MockCall represents a recorded method call
type MockCall struct {
	Method string
	Args   []interface{}
}

// NewMockHost creates a mock with the given workspace count, active
// workspace 0, focus on monitor 0 and focus tracking available.
func NewMockHost(workspaces int) *MockHost {
	return &MockHost{
		windows:           make(map[WindowID]*Window),
		count:             workspaces,
		tracking:          true,
		workspaceHandlers: make(map[int]func()),
		focusHandlers:     make(map[int]func(int)),
		keys:              make(map[string]func()),
		Errors:            make(map[string]error),
		MoveErrors:        make(map[WindowID]error),
		CallLog:           make([]MockCall, 0),
	}
}

func (m *MockHost) record(method string, args ...interface{}) {
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
	if m.closed && method != "Close" {
		m.UseAfterClose = append(m.UseAfterClose, method)
	}
}

// AddWindow adds a window to the mock.
func (m *MockHost) AddWindow(w Window) {
	m.mu.Lock()
	defer m.mu.Unlock()
	win := w
	m.windows[w.ID] = &win
}

// RemoveWindow removes a window, as if it had been destroyed.
func (m *MockHost) RemoveWindow(id WindowID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.windows, id)
}

// Window returns the current state of a window.
func (m *MockHost) Window(id WindowID) (Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// SetError sets an error to be returned for a specific operation
func (m *MockHost) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[operation] = err
}

// SetWorkspaceCount changes the number of workspaces.
func (m *MockHost) SetWorkspaceCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count = n
}

// SetFocusedMonitor changes the monitor reported by FocusedMonitor.
func (m *MockHost) SetFocusedMonitor(monitor int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = monitor
}

// SetFocusTracking toggles FocusTrackingAvailable.
func (m *MockHost) SetFocusTracking(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracking = available
}

// SetActiveWorkspace commits a new shared active workspace and then
// notifies subscribers, in that order.
func (m *MockHost) SetActiveWorkspace(ws int) {
	m.mu.Lock()
	m.active = ws
	handlers := make([]func(), 0, len(m.workspaceHandlers))
	for _, id := range sortedKeys(m.workspaceHandlers) {
		handlers = append(handlers, m.workspaceHandlers[id])
	}
	m.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// ActivateOn simulates a window being activated on the given monitor.
func (m *MockHost) ActivateOn(monitor int) {
	m.mu.RLock()
	handlers := make([]func(int), 0, len(m.focusHandlers))
	for _, id := range sortedKeys(m.focusHandlers) {
		handlers = append(handlers, m.focusHandlers[id])
	}
	m.mu.RUnlock()

	for _, fn := range handlers {
		fn(monitor)
	}
}

// PressKey invokes the handler bound to a hotkey.
func (m *MockHost) PressKey(binding string) bool {
	m.mu.RLock()
	fn, ok := m.keys[binding]
	m.mu.RUnlock()
	if ok {
		fn()
	}
	return ok
}

// BoundKeys returns the currently grabbed hotkeys.
func (m *MockHost) BoundKeys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.keys))
	for k := range m.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Subscribers returns the number of live workspace and focus subscriptions.
func (m *MockHost) Subscribers() (workspace, focus int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workspaceHandlers), len(m.focusHandlers)
}

// GetCallsFor returns all calls for a specific method
func (m *MockHost) GetCallsFor(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MockCall
	for _, call := range m.CallLog {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// Reopen clears the closed state, as a new connection to the same display
// would.
func (m *MockHost) Reopen() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = false
}

// Closed reports whether Close has been called.
func (m *MockHost) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Name returns the backend identifier
func (m *MockHost) Name() string {
	return "mock"
}

// Windows returns all windows ordered by id.
func (m *MockHost) Windows(ctx context.Context) ([]Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Windows")
	if err := m.Errors["Windows"]; err != nil {
		return nil, err
	}

	ids := make([]WindowID, 0, len(m.windows))
	for id := range m.windows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Window, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.windows[id])
	}
	return out, nil
}

// MoveToWorkspace relocates a window.
func (m *MockHost) MoveToWorkspace(ctx context.Context, id WindowID, workspace int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("MoveToWorkspace", id, workspace)
	if err := m.MoveErrors[id]; err != nil {
		return err
	}
	if err := m.Errors["MoveToWorkspace"]; err != nil {
		return err
	}
	w, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("window %d not found", id)
	}
	if workspace < 0 || workspace >= m.count {
		return fmt.Errorf("workspace %d out of range [0,%d)", workspace, m.count)
	}
	w.Workspace = workspace
	return nil
}

// WorkspaceCount returns the number of workspaces.
func (m *MockHost) WorkspaceCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("WorkspaceCount")
	if err := m.Errors["WorkspaceCount"]; err != nil {
		return 0, err
	}
	return m.count, nil
}

// ActiveWorkspace returns the shared active workspace.
func (m *MockHost) ActiveWorkspace(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ActiveWorkspace")
	if err := m.Errors["ActiveWorkspace"]; err != nil {
		return 0, err
	}
	return m.active, nil
}

// FocusedMonitor returns the focused monitor.
func (m *MockHost) FocusedMonitor(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FocusedMonitor")
	if err := m.Errors["FocusedMonitor"]; err != nil {
		return 0, err
	}
	return m.focused, nil
}

// OnActiveWorkspaceChanged subscribes to active workspace changes.
func (m *MockHost) OnActiveWorkspaceChanged(fn func()) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("OnActiveWorkspaceChanged")
	if err := m.Errors["OnActiveWorkspaceChanged"]; err != nil {
		return nil, err
	}
	id := m.nextHandler
	m.nextHandler++
	m.workspaceHandlers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.workspaceHandlers, id)
	}, nil
}

// OnWindowFocused subscribes to window activations.
func (m *MockHost) OnWindowFocused(fn func(monitor int)) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("OnWindowFocused")
	if err := m.Errors["OnWindowFocused"]; err != nil {
		return nil, err
	}
	id := m.nextHandler
	m.nextHandler++
	m.focusHandlers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.focusHandlers, id)
	}, nil
}

// FocusTrackingAvailable reports the configured tracking flag.
func (m *MockHost) FocusTrackingAvailable(ctx context.Context) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tracking
}

// BindKey grabs a hotkey.
func (m *MockHost) BindKey(binding string, fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("BindKey", binding)
	if m.closed {
		return fmt.Errorf("session closed")
	}
	if err := m.Errors["BindKey"]; err != nil {
		return err
	}
	if _, ok := m.keys[binding]; ok {
		return fmt.Errorf("%s is already grabbed", binding)
	}
	m.keys[binding] = fn
	return nil
}

// UnbindKeys releases every hotkey.
func (m *MockHost) UnbindKeys() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UnbindKeys")
	m.keys = make(map[string]func())
}

// Run blocks until ctx is cancelled; events are injected synchronously.
func (m *MockHost) Run(ctx context.Context) error {
	m.mu.Lock()
	m.record("Run")
	err := m.Errors["Run"]
	if m.closed {
		err = fmt.Errorf("session closed")
	}
	m.mu.Unlock()
	if err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

// Close marks the session closed.
func (m *MockHost) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Close")
	m.closed = true
	return nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

var _ Session = (*MockHost)(nil)
