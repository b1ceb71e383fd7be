package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/scribelabs/meetscribe/internal/media"
	"github.com/scribelabs/meetscribe/internal/session"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeController struct {
	mu       sync.Mutex
	calls    []string
	startErr error
	stopErr  error
	devices  []string
	active   bool
}

func (f *fakeController) Start(name string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "start:"+name)
	return nil, f.startErr
}

func (f *fakeController) Stop() (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "stop")
	return nil, f.stopErr
}

func (f *fakeController) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeController) Devices() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "devices")
	return f.devices, nil
}

func (f *fakeController) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func runConsole(t *testing.T, ctrl Controller, script string) string {
	t.Helper()
	var out bytes.Buffer
	console := NewConsole(strings.NewReader(script), &out, newLogger())
	console.Attach(ctrl)
	if err := console.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return out.String()
}

func TestConsoleDispatchesCommands(t *testing.T) {
	ctrl := &fakeController{devices: []string{"builtin mic", "monitor of speakers"}}
	out := runConsole(t, ctrl, "start weekly\ndevices\nstop\nquit\n")

	want := []string{"start:weekly", "devices", "stop"}
	got := ctrl.callLog()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !strings.Contains(out, "monitor of speakers") {
		t.Fatalf("devices output missing, got %q", out)
	}
}

func TestConsoleParsesQuotedNames(t *testing.T) {
	ctrl := &fakeController{}
	runConsole(t, ctrl, "start \"weekly sync\"\nquit\n")

	got := ctrl.callLog()
	if len(got) != 1 || got[0] != "start:weekly sync" {
		t.Fatalf("calls = %v", got)
	}
}

func TestConsoleQuitStopsActiveSession(t *testing.T) {
	ctrl := &fakeController{active: true}
	runConsole(t, ctrl, "quit\n")

	got := ctrl.callLog()
	if len(got) != 1 || got[0] != "stop" {
		t.Fatalf("quit should stop the active session, calls = %v", got)
	}
}

func TestConsoleReportsCommandErrors(t *testing.T) {
	ctrl := &fakeController{stopErr: errors.New("no active session")}
	out := runConsole(t, ctrl, "stop\nbogus\nquit\n")

	if !strings.Contains(out, "stop failed: no active session") {
		t.Fatalf("missing stop error, got %q", out)
	}
	if !strings.Contains(out, `unknown command "bogus"`) {
		t.Fatalf("missing unknown command notice, got %q", out)
	}
}

func TestConsoleStopsOnEOF(t *testing.T) {
	ctrl := &fakeController{}
	runConsole(t, ctrl, "")
}

func TestConsoleStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	console := NewConsole(strings.NewReader("devices\n"), &bytes.Buffer{}, newLogger())
	console.Attach(&fakeController{})
	if err := console.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestRenderSegmentColorsByChannel(t *testing.T) {
	mic := RenderSegment(media.Segment{Channel: media.ChannelMicrophone, Text: "hello"})
	if mic != "\x1b[31mmicrophone: hello\x1b[0m\n" {
		t.Fatalf("mic render = %q", mic)
	}

	spk := RenderSegment(media.Segment{Channel: media.ChannelSpeaker, Text: "hi"})
	if spk != "\x1b[32mspeaker: hi\x1b[0m\n" {
		t.Fatalf("speaker render = %q", spk)
	}
}

func TestRenderSegmentBreaksAfterJapaneseFullStop(t *testing.T) {
	got := RenderSegment(media.Segment{Channel: media.ChannelSpeaker, Text: "これはテストです。次の文です。"})
	want := "\x1b[32mspeaker: これはテストです。\n次の文です。\x1b[0m\n"
	if got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}
}
