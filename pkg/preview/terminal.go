package preview

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
)

// Live shows a render in the alternate screen while it progresses. Pressing
// q, escape or ctrl+c cancels the context returned by Start.
type Live struct {
	term   *uv.Terminal
	out    io.Writer
	width  int
	height int
	mu     sync.Mutex
}

// Start takes over the terminal and returns a context that is cancelled when
// the user quits
func Start(parent context.Context) (*Live, context.Context, error) {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return nil, nil, fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return nil, nil, fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	ctx, cancel := context.WithCancel(parent)
	l := &Live{term: term, out: os.Stdout, width: width, height: height}

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				l.mu.Lock()
				l.width, l.height = ev.Width, ev.Height
				l.mu.Unlock()
				term.Erase()
				term.Resize(ev.Width, ev.Height)
			case uv.KeyPressEvent:
				if ev.MatchString("q") || ev.MatchString("escape") || ev.MatchString("ctrl+c") {
					cancel()
				}
			}
		}
	}()
	return l, ctx, nil
}

// Show redraws img with a status line below it
func (l *Live) Show(img image.Image, status string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// the last row is kept for the status line
	frame := Render(img, l.width, max(1, l.height-1))
	var sb strings.Builder
	sb.WriteString("\x1b[H")
	// raw mode does not translate newlines
	sb.WriteString(strings.ReplaceAll(frame, "\n", "\r\n"))
	sb.WriteString("\r\n\x1b[2K")
	sb.WriteString(status)
	fmt.Fprint(l.out, sb.String())
}

// Close restores the terminal
func (l *Live) Close() {
	l.term.ExitAltScreen()
	l.term.ShowCursor()
	l.term.Shutdown(context.Background())
}
