package server

import (
	"net/http"

	"github.com/f4ah6o/localserve/internal/locale"
	"github.com/f4ah6o/localserve/internal/logging"
)

type staticHandler struct {
	root   string
	port   int
	logger logging.Logger
}

// NewStaticHandler serves regular files below root.
//
// The bare root path answers with <root>/en-US/index.html. Directories and
// missing files get the fixed 404 page. The request method is not checked.
func NewStaticHandler(root string, port int, logger logging.Logger) http.Handler {
	return &staticHandler{root: root, port: port, logger: logger}
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel, filePath := resolve(h.root, r.URL.Path)
	if rel == "" {
		filePath = locale.DefaultDocument(h.root)
	}

	data, found, err := readRegular(filePath)
	switch {
	case err != nil:
		internalError(w)
		h.logger.Log(describe(h.port, err))
	case !found:
		notFound(w)
		logging.Logf(h.logger, "404 Not Found: %s on port %d", filePath, h.port)
	default:
		contentType := ContentType(filePath)
		writeBody(w, http.StatusOK, contentType, data)
		logging.Logf(h.logger, "Served: %s (%s) on port %d", filePath, contentType, h.port)
	}
}
