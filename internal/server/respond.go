package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/f4ah6o/localserve/internal/logging"
)

const (
	notFoundBody      = "<html><body><h1>404 - File Not Found</h1></body></html>"
	internalErrorBody = "<html><body><h1>500 - Internal Server Error</h1></body></html>"
	htmlContentType   = "text/html"
)

// resolve maps a URL path onto root. rel is the slash-separated path below
// root, empty for the root itself. Cleaning first keeps ".." inside root.
func resolve(root, urlPath string) (rel, full string) {
	rel = strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if rel == "" {
		return "", root
	}
	return rel, filepath.Join(root, filepath.FromSlash(rel))
}

// readRegular returns the contents of filePath. found is false, with a nil
// error, when filePath does not exist or is not a regular file.
func readRegular(filePath string) (data []byte, found bool, err error) {
	info, err := os.Stat(filePath)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false, nil
	}
	data, err = os.ReadFile(filePath)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	w.Write(body)
}

func notFound(w http.ResponseWriter) {
	writeBody(w, http.StatusNotFound, htmlContentType, []byte(notFoundBody))
}

func internalError(w http.ResponseWriter) {
	writeBody(w, http.StatusInternalServerError, htmlContentType, []byte(internalErrorBody))
}

// isolate turns a panic inside one request into a logged 500 so the
// listener keeps accepting. If the response was already started the 500 page
// cannot be sent; the connection is aborted instead.
func isolate(port int, logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := &trackingWriter{ResponseWriter: w}
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logging.Logf(logger, "Error on port %d: %v", port, rec)
			if tw.started {
				panic(http.ErrAbortHandler)
			}
			internalError(w)
		}()
		next.ServeHTTP(tw, r)
	})
}

// trackingWriter records whether the status line has been committed.
type trackingWriter struct {
	http.ResponseWriter
	started bool
}

func (t *trackingWriter) WriteHeader(status int) {
	t.started = true
	t.ResponseWriter.WriteHeader(status)
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	t.started = true
	return t.ResponseWriter.Write(p)
}

func (t *trackingWriter) Flush() {
	t.started = true
	if f, ok := t.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (t *trackingWriter) Unwrap() http.ResponseWriter {
	return t.ResponseWriter
}

// serialize lets one request at a time through next.
func serialize(next http.Handler) http.Handler {
	var mu sync.Mutex
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// errorLogWriter routes net/http's internal errors (accept failures, bad
// requests) into the debug log.
type errorLogWriter struct {
	port   int
	logger logging.Logger
}

func (e errorLogWriter) Write(p []byte) (int, error) {
	logging.Logf(e.logger, "Error on port %d: %s", e.port, strings.TrimSpace(string(p)))
	return len(p), nil
}

func newErrorLog(port int, logger logging.Logger) *log.Logger {
	return log.New(errorLogWriter{port: port, logger: logger}, "", 0)
}

func describe(port int, err error) string {
	return fmt.Sprintf("Error on port %d: %v", port, err)
}
