package hkxcmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type call struct {
	binary string
	args   []string
}

// fakeExecutor records invocations and writes the output file each tool
// would produce.
type fakeExecutor struct {
	calls []call
	fail  error
}

func (f *fakeExecutor) Run(ctx context.Context, binary string, args []string) error {
	f.calls = append(f.calls, call{binary: binary, args: args})
	if f.fail != nil {
		return f.fail
	}
	out := args[len(args)-1]
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return os.WriteFile(out, []byte("converted"), 0o644)
}

func newClient(t *testing.T, exec Executor, hasHkxCmd, hasPost bool) *Client {
	t.Helper()
	return New("hkxcmd", "HavokBehaviorPostProcess.exe", 60, nil,
		WithExecutor(exec), WithAvailability(hasHkxCmd, hasPost))
}

func TestConvertForTargetFullChain(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out", "a000_000000.hkx")

	exec := &fakeExecutor{}
	client := newClient(t, exec, true, true)
	if err := client.ConvertForTarget(context.Background(), filepath.Join(dir, "in.hkx"), out); err != nil {
		t.Fatalf("ConvertForTarget: %v", err)
	}

	if len(exec.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(exec.calls))
	}
	if exec.calls[0].args[0] != "convert" {
		t.Fatalf("first step args = %v", exec.calls[0].args)
	}
	if exec.calls[1].args[0] != "--platformamd64" {
		t.Fatalf("second step args = %v", exec.calls[1].args)
	}
	// Post-processor consumes the hkxcmd intermediate.
	if exec.calls[1].args[1] != exec.calls[0].args[2] {
		t.Fatalf("chain broken: %v then %v", exec.calls[0].args, exec.calls[1].args)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if _, err := os.Stat(out + ".le.hkx"); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("intermediate not cleaned up")
	}
}

func TestConvertForTargetSingleTool(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.hkx")

	exec := &fakeExecutor{}
	client := newClient(t, exec, true, false)
	if err := client.ConvertForTarget(context.Background(), filepath.Join(dir, "in.hkx"), out); err != nil {
		t.Fatalf("ConvertForTarget: %v", err)
	}
	if len(exec.calls) != 1 || exec.calls[0].args[0] != "convert" {
		t.Fatalf("calls = %+v", exec.calls)
	}

	exec = &fakeExecutor{}
	client = newClient(t, exec, false, true)
	if err := client.ConvertForTarget(context.Background(), filepath.Join(dir, "in.hkx"), out); err != nil {
		t.Fatalf("ConvertForTarget: %v", err)
	}
	if len(exec.calls) != 1 || exec.calls[0].args[0] != "--platformamd64" {
		t.Fatalf("calls = %+v", exec.calls)
	}
}

func TestConvertForTargetNoTools(t *testing.T) {
	client := newClient(t, &fakeExecutor{}, false, false)
	err := client.ConvertForTarget(context.Background(), "in.hkx", filepath.Join(t.TempDir(), "out.hkx"))
	if err == nil || !strings.Contains(err.Error(), "no conversion tools") {
		t.Fatalf("err = %v", err)
	}
	if client.Available() {
		t.Fatal("Available should be false without tools")
	}
}

func TestConvertRequiresTool(t *testing.T) {
	client := newClient(t, &fakeExecutor{}, false, true)
	if err := client.Convert(context.Background(), "in.hkx", "out.hkx"); err == nil {
		t.Fatal("Convert without hkxcmd should error")
	}
	if err := client.PostProcess(context.Background(), "in.hkx", filepath.Join(t.TempDir(), "out.hkx")); err != nil {
		t.Fatalf("PostProcess: %v", err)
	}
}

func TestToolFailurePropagates(t *testing.T) {
	exec := &fakeExecutor{fail: errors.New("exit status 1")}
	client := newClient(t, exec, true, true)
	err := client.ConvertForTarget(context.Background(), "in.hkx", filepath.Join(t.TempDir(), "out.hkx"))
	if err == nil || !strings.Contains(err.Error(), "exit status 1") {
		t.Fatalf("err = %v", err)
	}
	if len(exec.calls) != 1 {
		t.Fatalf("chain should stop after failure, calls = %d", len(exec.calls))
	}
}
