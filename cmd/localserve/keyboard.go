package main

import (
	"bytes"
	"context"
	"io"
	"os"

	"golang.org/x/term"
)

// keyboard waits for a single key press on the controlling terminal.
//
// On a terminal the input is switched to raw mode so no Enter is needed.
// Raw mode also stops the terminal from turning "\n" into "\r\n", so console
// output must go through Output while the keyboard is open.
type keyboard struct {
	in    *os.File
	fd    int
	state *term.State
}

func openKeyboard(in *os.File) *keyboard {
	k := &keyboard{in: in, fd: int(in.Fd())}
	if term.IsTerminal(k.fd) {
		if state, err := term.MakeRaw(k.fd); err == nil {
			k.state = state
		}
	}
	return k
}

// Raw reports whether the terminal is in raw mode.
func (k *keyboard) Raw() bool {
	return k.state != nil
}

// Output wraps w so line endings survive raw mode.
func (k *keyboard) Output(w io.Writer) io.Writer {
	if !k.Raw() {
		return w
	}
	return crlfWriter{w: w}
}

// Wait returns after one byte of input, end of input, or ctx being done.
// In raw mode Ctrl+C arrives as a byte and counts as a key press.
func (k *keyboard) Wait(ctx context.Context) {
	pressed := make(chan struct{})
	go func() {
		defer close(pressed)
		var b [1]byte
		k.in.Read(b[:])
	}()

	select {
	case <-pressed:
	case <-ctx.Done():
	}
}

// Close restores the terminal state.
func (k *keyboard) Close() error {
	if k.state == nil {
		return nil
	}
	err := term.Restore(k.fd, k.state)
	k.state = nil
	return err
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
