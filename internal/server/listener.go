package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/f4ah6o/localserve/internal/discovery"
	"github.com/f4ah6o/localserve/internal/logging"
)

// Listener is one bound endpoint serving one root.
type Listener struct {
	Host    string
	Port    int
	Root    string
	Mode    discovery.Mode
	Handler http.Handler
	Logger  logging.Logger
}

// URL is the address printed and opened for this listener.
func (l *Listener) URL() string {
	return fmt.Sprintf("http://%s/", net.JoinHostPort(l.Host, strconv.Itoa(l.Port)))
}

// Serve binds the listener and serves until ctx is cancelled.
//
// A bind failure is logged and returned without retry. Cancellation closes
// the server and every open connection immediately, in which case Serve
// returns nil.
func (l *Listener) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", net.JoinHostPort(l.Host, strconv.Itoa(l.Port)))
	if err != nil {
		l.Logger.Log(describe(l.Port, err))
		return fmt.Errorf("failed to listen on port %d: %w", l.Port, err)
	}
	return l.serve(ctx, ln)
}

func (l *Listener) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:  isolate(l.Port, l.Logger, serialize(l.Handler)),
		ErrorLog: newErrorLog(l.Port, l.Logger),
	}
	stop := context.AfterFunc(ctx, func() {
		srv.Close()
	})
	defer stop()

	switch l.Mode {
	case discovery.ModeBrowse:
		logging.Logf(l.Logger, "Directory browsing enabled for '%s' on %s", l.Root, l.URL())
	default:
		logging.Logf(l.Logger, "Server started for root directory '%s' on %s", l.Root, l.URL())
	}

	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	l.Logger.Log(describe(l.Port, err))
	return err
}
