// Command localserve serves every web document root found under the working
// directory, one port per root, and opens each in the default browser.
//
// Usage:
//
//	localserve [--debug]
//
// A root is the directory two levels above an index.html
// (<root>/<locale>/index.html). Without any index.html the working directory
// itself is served with directory listings. --debug logs every request to the
// console and to server_log.txt.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/f4ah6o/localserve/internal/browser"
	"github.com/f4ah6o/localserve/internal/config"
	"github.com/f4ah6o/localserve/internal/discovery"
	"github.com/f4ah6o/localserve/internal/logging"
	"github.com/f4ah6o/localserve/internal/server"
)

func main() {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("Failed to resolve working directory: %v", err)
	}

	cfg, err := config.Load(wd, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	res, err := discovery.Discover(cfg.WorkDir)
	if err != nil {
		log.Fatalf("Failed to scan %s: %v", cfg.WorkDir, err)
	}

	kb := openKeyboard(os.Stdin)
	defer kb.Close()
	out := kb.Output(color.Output)

	if cfg.Debug {
		fmt.Fprintln(out, "Debug mode enabled.")
	}
	if res.Mode == discovery.ModeBrowse {
		fmt.Fprintln(out, "No index.html files found. Enabling directory browsing.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := &server.Dispatcher{
		Config: cfg,
		Logger: logging.New(cfg, out),
		Opener: browser.System{},
		Out:    out,
	}
	d.Start(ctx, server.Assign(res, cfg.BasePort))

	if cfg.Debug {
		fmt.Fprintln(out, "Press any key to stop the servers...")
	}
	kb.Wait(ctx)

	stop()
	d.Wait()
}
