// Package logging provides the debug log shared by all listeners.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/f4ah6o/localserve/internal/config"
)

// TimeFormat is the timestamp prefix of every entry.
const TimeFormat = "2006-01-02 15:04:05"

var (
	stampColor = color.New(color.FgHiBlack)
	errorColor = color.New(color.FgRed)
)

// Logger records one complete message per call.
type Logger interface {
	Log(message string)
}

// Logf formats a message and hands it to l.
func Logf(l Logger, format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}

// New returns the logger selected by cfg.Debug: a File logger writing to
// cfg.LogFile and console, or a no-op logger.
func New(cfg config.Config, console io.Writer) Logger {
	if !cfg.Debug {
		return Nop()
	}
	return NewFile(cfg.LogFile, console)
}

type nop struct{}

func (nop) Log(string) {}

// Nop returns a Logger that discards everything without touching the filesystem.
func Nop() Logger {
	return nop{}
}

// File prints timestamped entries to a console and appends them to a file.
// Entries are written one at a time, in lock acquisition order.
type File struct {
	mu      sync.Mutex
	path    string
	console io.Writer
	now     func() time.Time
}

// NewFile returns a File logger. The file is created on the first entry.
func NewFile(path string, console io.Writer) *File {
	return &File{
		path:    path,
		console: console,
		now:     time.Now,
	}
}

// Log implements Logger.
func (f *File) Log(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stamp := f.now().Format(TimeFormat)
	fmt.Fprintf(f.console, "%s: %s\n", stampColor.Sprint(stamp), message)

	if err := f.appendLine(stamp + ": " + message + "\n"); err != nil {
		fmt.Fprintln(f.console, errorColor.Sprintf("Failed to write log file %s: %v", f.path, err))
	}
}

func (f *File) appendLine(line string) error {
	out, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, line); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Recorder keeps entries in memory. It exists as a test seam: tests inject it
// wherever a Logger is expected and inspect Lines afterwards.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// Log implements Logger.
func (r *Recorder) Log(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, message)
}

// Lines returns a copy of the recorded entries.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}
