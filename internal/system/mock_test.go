package system

import (
	"context"
	"errors"
	"io/fs"
	"testing"
)

func TestMockFS_ReadWriteFile(t *testing.T) {
	mockFS := NewMockFS()

	content := []byte("[keybindings]\n")
	if err := mockFS.WriteFile("/cfg/wsshift/config.toml", content, 0644); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("WriteFile without parent = %v, want fs.ErrNotExist", err)
	}
	if err := mockFS.MkdirAll("/cfg/wsshift", 0755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	if err := mockFS.WriteFile("/cfg/wsshift/config.toml", content, 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	data, err := mockFS.ReadFile("/cfg/wsshift/config.toml")
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "[keybindings]\n" {
		t.Errorf("ReadFile = %q, want %q", string(data), "[keybindings]\n")
	}
	if len(mockFS.Written) != 1 || mockFS.Written[0] != "/cfg/wsshift/config.toml" {
		t.Errorf("Written = %v", mockFS.Written)
	}
}

func TestMockFS_ReadFile_NotExists(t *testing.T) {
	mockFS := NewMockFS()

	_, err := mockFS.ReadFile("/nonexistent")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile error = %v, want fs.ErrNotExist", err)
	}
}

func TestMockFS_Exists(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/cfg/wsshift/profiles/laptop.toml", []byte(""))

	for _, path := range []string{"/cfg/wsshift/profiles/laptop.toml", "/cfg/wsshift/profiles", "/cfg"} {
		if !mockFS.Exists(path) {
			t.Errorf("Exists(%q) = false, want true", path)
		}
	}
	if mockFS.Exists("/cfg/other") {
		t.Error("Exists(/cfg/other) = true, want false")
	}

	if err := mockFS.MkdirAll("/state/wsshift", 0755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	if !mockFS.Exists("/state") {
		t.Error("MkdirAll should create parents")
	}
}

func TestMockFS_ErrorInjection(t *testing.T) {
	mockFS := NewMockFS()
	injected := errors.New("disk gone")
	for _, op := range []string{"ReadFile", "WriteFile", "MkdirAll"} {
		mockFS.SetError(op, injected)
	}

	if _, err := mockFS.ReadFile("/x"); err != injected {
		t.Errorf("ReadFile error = %v, want injected", err)
	}
	if err := mockFS.WriteFile("/x", nil, 0644); err != injected {
		t.Errorf("WriteFile error = %v, want injected", err)
	}
	if err := mockFS.MkdirAll("/x", 0755); err != injected {
		t.Errorf("MkdirAll error = %v, want injected", err)
	}
}

func TestMockExecutor_Responses(t *testing.T) {
	exec := NewMockExecutor()
	exec.AddResponse("gsettings get org.gnome.mutter dynamic-workspaces", []byte("false\n"), nil)
	exec.AddResponse("gsettings", []byte("true\n"), nil)
	exec.DefaultResponse = MockResponse{Err: errors.New("not found")}

	ctx := context.Background()

	out, err := exec.Execute(ctx, "gsettings", "get", "org.gnome.mutter", "dynamic-workspaces")
	if err != nil || string(out) != "false\n" {
		t.Errorf("full match = %q, %v", out, err)
	}

	out, err = exec.Execute(ctx, "gsettings", "get", "org.gnome.mutter", "workspaces-only-on-primary")
	if err != nil || string(out) != "true\n" {
		t.Errorf("name match = %q, %v", out, err)
	}

	if _, err := exec.Execute(ctx, "xprop"); err == nil {
		t.Error("expected default error for unknown command")
	}

	last, ok := exec.LastCommand()
	if !ok || last.Name != "xprop" {
		t.Errorf("LastCommand = %+v, %v", last, ok)
	}
	if len(exec.Commands) != 3 {
		t.Errorf("recorded %d commands, want 3", len(exec.Commands))
	}

	exec.Reset()
	if _, ok := exec.LastCommand(); ok {
		t.Error("LastCommand should be empty after Reset")
	}
}
