package tui

import (
	"bytes"
	"io"
	"strings"
	"sync"

	xansi "github.com/charmbracelet/x/ansi"
)

// diagnostics buffers log output while the alt screen owns the terminal.
// The last line feeds the status bar; the whole buffer is replayed on exit.
type diagnostics struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	last string
	seq  int
}

func (d *diagnostics) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf.Write(p)
	if line := strings.TrimSpace(xansi.Strip(string(p))); line != "" {
		if i := strings.LastIndexByte(line, '\n'); i >= 0 {
			line = line[i+1:]
		}
		d.last = line
		d.seq++
	}
	return len(p), nil
}

// Last returns the most recent line and a counter that grows with every write.
func (d *diagnostics) Last() (string, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last, d.seq
}

func (d *diagnostics) ReplayTo(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.buf.Len() == 0 {
		return nil
	}
	_, err := w.Write(d.buf.Bytes())
	return err
}
