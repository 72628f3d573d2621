package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

// DefaultRenderer writes ANSI escapes, buffered and flushed once per frame.
type DefaultRenderer struct {
	Out io.Writer
	Fd  int

	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
	now          func() time.Time
	sleep        func(time.Duration)
}

type decoration struct {
	X, Y    int
	Content string
	Frames  int // remaining frames until removed
}

// NewDefaultRenderer draws on stdout.
func NewDefaultRenderer() *DefaultRenderer {
	return &DefaultRenderer{Out: os.Stdout, Fd: int(os.Stdout.Fd())}
}

func (r *DefaultRenderer) Init() error {
	if term.IsTerminal(r.Fd) {
		state, err := term.MakeRaw(r.Fd)
		if nil != err {
			return fmt.Errorf("unable to make terminal raw: %w", err)
		}
		r.restoreState = state
	}

	fmt.Fprintf(r.Out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[2J",     // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Fprintf(r.Out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(r.Fd, r.restoreState)
}

func (r *DefaultRenderer) Size() (int, int, error) {
	columns, rows, err := term.GetSize(r.Fd)
	if nil != err {
		return 0, 0, fmt.Errorf("unable to get terminal size: %w", err)
	}
	return columns, rows, nil
}

func (r *DefaultRenderer) Clear() {
	r.decorations = nil
	r.buffer.WriteString("\033[2J")
}

func (r *DefaultRenderer) AddDecoration(row, col int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		X:       col,
		Y:       row,
		Content: content,
		Frames:  frames,
	})
	r.Fill(row, col, content)
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			r.Fill(d.Y, d.X, strings.Repeat(" ", len([]rune(stripEscapes(d.Content)))))
			continue
		}
		r.Fill(d.Y, d.X, d.Content)
		nd = append(nd, d)
		d.Frames--
	}
	r.decorations = nd
}

// RenderLoop calls frame once per period until it returns false, sleeping
// out whatever is left of each period.
func (r *DefaultRenderer) RenderLoop(period time.Duration, frame func(now time.Time) bool) {
	now, sleep := time.Now, time.Sleep
	if nil != r.now {
		now = r.now
	}
	if nil != r.sleep {
		sleep = r.sleep
	}

	cont := true
	for cont {
		start := now()
		deadline := start.Add(period)

		cont = frame(start)

		r.tickDecorations()
		r.flush()

		if remaining := deadline.Sub(now()); remaining > 0 {
			sleep(remaining)
		}
	}
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) FillColor(row, column int, c color.RGBA, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H\033[38;2;")
	r.buffer.WriteString(strconv.FormatInt(int64(c.R), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.G), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.B), 10))
	r.buffer.WriteString("m")
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[0m")
}

func (r *DefaultRenderer) flush() {
	r.Out.Write([]byte(r.buffer.String()))
	r.buffer.Reset()
}

// stripEscapes drops SGR sequences so decorations can be blanked by width.
func stripEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
