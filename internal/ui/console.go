package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/mattn/go-shellwords"

	"github.com/scribelabs/meetscribe/internal/media"
	"github.com/scribelabs/meetscribe/internal/session"
)

const (
	colorMicrophone = "\x1b[31m"
	colorSpeaker    = "\x1b[32m"
	colorNotice     = "\x1b[33m"
	colorReset      = "\x1b[0m"
)

// Controller is the slice of the session manager the console drives.
type Controller interface {
	Start(name string) (*session.Session, error)
	Stop() (*session.Session, error)
	Active() bool
	Devices() ([]string, error)
}

// Console is a line-oriented front end: it reads commands from in, prints
// transcript segments and session events to out, and doubles as the
// session event sink so finals show up as they arrive.
type Console struct {
	in     io.Reader
	out    io.Writer
	ctrl   Controller
	logger *slog.Logger
	parser *shellwords.Parser

	mu sync.Mutex
}

func NewConsole(in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	return &Console{
		in:     in,
		out:    out,
		logger: logger.With(slog.String("component", "console")),
		parser: shellwords.NewParser(),
	}
}

// Attach hands the console its controller. Must be called before Run; the
// two-step wiring exists because the manager takes the console as its event
// sink.
func (c *Console) Attach(ctrl Controller) {
	c.ctrl = ctrl
}

// Run reads commands until the user quits, stdin closes, or the context is
// cancelled. The stdin reader runs in its own goroutine because a blocked
// read on a terminal cannot be interrupted.
func (c *Console) Run(ctx context.Context) error {
	c.printf("commands: start [name], stop, devices, quit\n")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			c.logger.Warn("command input failed", slog.String("error", err.Error()))
		}
	}()

	c.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if c.dispatch(line) {
				return nil
			}
			c.prompt()
		}
	}
}

// dispatch runs one command line and reports whether the console should
// exit.
func (c *Console) dispatch(line string) bool {
	args, err := c.parser.Parse(line)
	if err != nil {
		c.printf("cannot parse command: %v\n", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "start":
		var name string
		if len(args) > 1 {
			name = args[1]
		}
		if _, err := c.ctrl.Start(name); err != nil {
			c.printf("start failed: %v\n", err)
		}
	case "stop":
		if _, err := c.ctrl.Stop(); err != nil {
			c.printf("stop failed: %v\n", err)
		}
	case "devices":
		names, err := c.ctrl.Devices()
		if err != nil {
			c.printf("devices failed: %v\n", err)
			return false
		}
		for _, name := range names {
			c.printf("  %s\n", name)
		}
	case "quit", "exit":
		if c.ctrl.Active() {
			_, _ = c.ctrl.Stop()
		}
		return true
	case "help":
		c.printf("commands: start [name], stop, devices, quit\n")
	default:
		c.printf("unknown command %q\n", args[0])
	}
	return false
}

func (c *Console) SessionStarted(name, transcriptPath string) {
	c.printf("recording %s -> %s\n", name, transcriptPath)
}

func (c *Console) SegmentFinal(seg media.Segment) {
	c.printf("%s", RenderSegment(seg))
}

func (c *Console) SessionError(err error) {
	c.printf("%serror: %v%s\n", colorNotice, err, colorReset)
}

func (c *Console) SummaryWritten(path string) {
	c.printf("summary written: %s\n", path)
}

func (c *Console) SessionStopped(name string) {
	c.printf("recording stopped: %s\n", name)
}

func (c *Console) prompt() {
	c.printf("> ")
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// RenderSegment colors a final by channel, dark red for the microphone and
// dark green for the speaker, and breaks the line after each Japanese full
// stop so long finals stay readable.
func RenderSegment(seg media.Segment) string {
	color := colorMicrophone
	if seg.Channel == media.ChannelSpeaker {
		color = colorSpeaker
	}
	text := strings.ReplaceAll(seg.Text, "。", "。\n")
	text = strings.TrimSuffix(text, "\n")
	return color + string(seg.Channel) + ": " + text + colorReset + "\n"
}
