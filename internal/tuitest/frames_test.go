package tuitest

import (
	"bytes"
	"testing"
)

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[HPapers  \r\nPage 1 of 3\x1b[2J\x1b[H\x1b[1mPaper\x1b[0m\r\n\r\n")
	frames := parseFrames(raw)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Plain != "Papers\nPage 1 of 3" {
		t.Fatalf("unexpected first frame: %q", frames[0].Plain)
	}
	last, ok := (&Recording{Frames: frames}).FinalFrame()
	if !ok || last.Plain != "Paper" || last.Index != 1 {
		t.Fatalf("unexpected final frame: %+v", last)
	}
}

func TestParseFramesWithoutClear(t *testing.T) {
	frames := parseFrames([]byte("hello\x1b[0m"))
	if len(frames) != 1 || frames[0].Plain != "hello" {
		t.Fatalf("unexpected frames: %+v", frames)
	}
}

func TestRecordingSearch(t *testing.T) {
	raw := []byte("\x1b[2JPage 1 of 2\x1b[2J\x1b]0;title\x07Similar Papers\x1b[2Jbye")
	rec := &Recording{Raw: raw, Frames: parseFrames(raw)}

	if !rec.Contains("Similar Papers") {
		t.Fatal("expected raw stream to contain the section header")
	}
	if rec.Contains("title") {
		t.Fatal("OSC payloads should be stripped")
	}
	frame, ok := rec.LastFrameContaining("Page 1")
	if !ok || frame.Index != 0 {
		t.Fatalf("unexpected frame lookup: %+v %v", frame, ok)
	}
	if _, ok := rec.LastFrameContaining("missing"); ok {
		t.Fatal("lookup should fail for absent text")
	}
}

func TestResponderAnswersProbesInOrder(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)
	tr.Process([]byte("\x1b]11;?\x07junk\x1b[6n"))

	want := "\x1b]11;rgb:0000/0000/0000\x07\x1b[1;1R"
	if out.String() != want {
		t.Fatalf("unexpected answers: %q", out.String())
	}
}

func TestResponderHandlesSplitProbe(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)
	tr.Process([]byte("\x1b["))
	tr.Process([]byte("6n"))
	if out.String() != "\x1b[1;1R" {
		t.Fatalf("split probe not answered: %q", out.String())
	}
}
