package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/f4ah6o/localserve/internal/browser"
	"github.com/f4ah6o/localserve/internal/config"
	"github.com/f4ah6o/localserve/internal/discovery"
	"github.com/f4ah6o/localserve/internal/locale"
	"github.com/f4ah6o/localserve/internal/logging"
)

var (
	urlColor  = color.New(color.FgCyan, color.Underline)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
)

// Assignment binds one discovered root to one port.
type Assignment struct {
	Root discovery.Root
	Mode discovery.Mode
	Port int
}

// Assign gives every root of res its own port, counting up from basePort in
// discovery order.
func Assign(res discovery.Result, basePort int) []Assignment {
	out := make([]Assignment, 0, len(res.Roots))
	for i, root := range res.Roots {
		out = append(out, Assignment{Root: root, Mode: res.Mode, Port: basePort + i})
	}
	return out
}

// Dispatcher runs one supervised listener per assignment.
type Dispatcher struct {
	Config config.Config
	Logger logging.Logger
	Opener browser.Opener
	// Out receives the console banner.
	Out io.Writer

	wg    sync.WaitGroup
	outMu sync.Mutex
}

// Listener builds the listener for a.
func (d *Dispatcher) Listener(a Assignment) *Listener {
	var h http.Handler
	switch a.Mode {
	case discovery.ModeBrowse:
		h = NewBrowseHandler(a.Root.Dir, a.Port, d.Config.Executable, d.Logger)
	default:
		h = NewStaticHandler(a.Root.Dir, a.Port, d.Logger)
	}
	return &Listener{
		Host:    d.Config.Host,
		Port:    a.Port,
		Root:    a.Root.Dir,
		Mode:    a.Mode,
		Handler: h,
		Logger:  d.Logger,
	}
}

// Start launches every listener and announces its URL. It does not block.
func (d *Dispatcher) Start(ctx context.Context, assignments []Assignment) {
	for _, a := range assignments {
		l := d.Listener(a)
		d.wg.Add(1)
		go d.supervise(ctx, l)
		d.announce(a, l.URL())
	}
}

// Wait blocks until every started listener has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// supervise runs one listener; its failure or panic never reaches the others.
func (d *Dispatcher) supervise(ctx context.Context, l *Listener) {
	defer d.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("listener panic: %v", rec)
			d.Logger.Log(describe(l.Port, err))
			d.reportError(l.Port, err)
		}
	}()

	if err := l.Serve(ctx); err != nil {
		d.reportError(l.Port, err)
	}
}

// reportError echoes a listener failure in red. Outside debug mode failures
// stay silent, like every other log event.
func (d *Dispatcher) reportError(port int, err error) {
	if !d.Config.Debug {
		return
	}
	d.printLine(errColor.Sprint(describe(port, err)))
}

func (d *Dispatcher) announce(a Assignment, url string) {
	suffix := ""
	if a.Root.Locale != "" {
		suffix = " [" + a.Root.Locale + "]"
	}
	if a.Root.Index != "" {
		if title := discovery.Title(a.Root.Index); title != "" {
			suffix += fmt.Sprintf(" (%q)", title)
		}
	}
	d.printLine(fmt.Sprintf("Listening on %s (click to open) for files in %s%s", urlColor.Sprint(url), a.Root.Dir, suffix))

	if a.Mode == discovery.ModeStatic {
		if _, err := os.Stat(locale.DefaultDocument(a.Root.Dir)); err != nil {
			d.printLine(warnColor.Sprintf("  no %s/%s under %s; %s will answer 404", locale.DefaultTag, locale.IndexName, a.Root.Dir, url))
		}
	}

	if !d.Config.OpenBrowser || d.Opener == nil {
		return
	}
	if err := d.Opener.Open(url); err != nil {
		msg := fmt.Sprintf("Could not open browser for %s: %v", url, err)
		d.printLine(warnColor.Sprint(msg))
		d.Logger.Log(msg)
	}
}

func (d *Dispatcher) printLine(line string) {
	d.outMu.Lock()
	defer d.outMu.Unlock()
	fmt.Fprintln(d.Out, line)
}
