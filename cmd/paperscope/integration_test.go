package main

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/csheth/paperscope/internal/tuitest"
)

func TestBrowseAndExplainEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and drives the binary")
	}
	b := newBackend(t)
	binary := buildBinary(t, moduleDir(t))
	home := t.TempDir()

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "--no-alt-screen", "--api-url", b.URL()},
		Dir:     home,
		Env: []string{
			"HOME=" + home,
			"PAPERSCOPE_LOG_FILE=" + filepath.Join(home, "paperscope.log"),
		},
		Width:  120,
		Height: 40,
		Steps: []tuitest.Step{
			{WaitFor: "Page 1 of 2", Input: []byte("n")},
			{WaitFor: "Page 2 of 2", Input: []byte("p")},
			{Delay: 200 * time.Millisecond, WaitFor: "Paper number 0", Input: tuitest.KeyDown},
			{Delay: 200 * time.Millisecond, Input: tuitest.KeyEnter},
			{WaitFor: "Similarity: 87.5%", Input: []byte("x")},
			{WaitFor: "attention heads", Input: tuitest.KeyEsc},
			{Delay: 200 * time.Millisecond, Input: tuitest.KeyCtrlC},
		},
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.Contains("Why This Paper Is Recommended") {
		t.Fatalf("explanation dialog never rendered")
	}
	if _, ok := rec.LastFrameContaining("Paper number 1"); !ok {
		t.Fatalf("detail screen for the selected paper never rendered")
	}
	frame, ok := rec.FinalFrame()
	if !ok {
		t.Fatalf("no frames captured")
	}
	t.Logf("final frame:\n%s", frame.Plain)
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	name := "paperscope-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
