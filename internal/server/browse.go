package server

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/f4ah6o/localserve/internal/logging"
)

type browseHandler struct {
	root    string
	port    int
	exclude os.FileInfo
	logger  logging.Logger
}

// NewBrowseHandler lists directories and serves files below root.
//
// exclude names a file hidden from every listing, normally the running
// executable; it may be empty.
func NewBrowseHandler(root string, port int, exclude string, logger logging.Logger) http.Handler {
	h := &browseHandler{root: root, port: port, logger: logger}
	if exclude != "" {
		if info, err := os.Stat(exclude); err == nil {
			h.exclude = info
		}
	}
	return h
}

func (h *browseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel, target := resolve(h.root, r.URL.Path)

	if info, err := os.Stat(target); err == nil && info.IsDir() {
		h.serveListing(w, rel, target)
		return
	}

	data, found, err := readRegular(target)
	switch {
	case err != nil:
		internalError(w)
		h.logger.Log(describe(h.port, err))
	case !found:
		notFound(w)
		logging.Logf(h.logger, "404 Not Found: %s on port %d", target, h.port)
	default:
		writeBody(w, http.StatusOK, ContentType(target), data)
		logging.Logf(h.logger, "Served: %s on port %d", target, h.port)
	}
}

func (h *browseHandler) serveListing(w http.ResponseWriter, rel, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		internalError(w)
		h.logger.Log(describe(h.port, err))
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if h.excluded(e) {
			continue
		}
		names = append(names, e.Name())
	}

	var buf bytes.Buffer
	if err := renderListing(&buf, "/"+rel, names); err != nil {
		internalError(w)
		h.logger.Log(describe(h.port, err))
		return
	}
	writeBody(w, http.StatusOK, htmlContentType, buf.Bytes())
	logging.Logf(h.logger, "Directory listing served for '%s' on port %d", dir, h.port)
}

func (h *browseHandler) excluded(e fs.DirEntry) bool {
	if h.exclude == nil || e.IsDir() {
		return false
	}
	info, err := e.Info()
	return err == nil && os.SameFile(info, h.exclude)
}

// renderListing writes an HTML page linking every name relative to dirPath.
//
// The <base> element makes the relative links resolve inside dirPath even
// when the request URL has no trailing slash.
func renderListing(w io.Writer, dirPath string, names []string) error {
	base := dirPath
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	list := element(atom.Ul)
	for _, name := range names {
		link := element(atom.A, html.Attribute{Key: "href", Val: escapeName(name)})
		link.AppendChild(&html.Node{Type: html.TextNode, Data: name})
		item := element(atom.Li)
		item.AppendChild(link)
		list.AppendChild(item)
	}

	heading := element(atom.H1)
	heading.AppendChild(&html.Node{Type: html.TextNode, Data: "Directory Listing"})

	head := element(atom.Head)
	head.AppendChild(element(atom.Base, html.Attribute{Key: "href", Val: (&url.URL{Path: base}).EscapedPath()}))

	body := element(atom.Body)
	body.AppendChild(heading)
	body.AppendChild(list)

	page := element(atom.Html)
	page.AppendChild(head)
	page.AppendChild(body)
	return html.Render(w, page)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

// escapeName turns an entry name into a relative URL reference.
func escapeName(name string) string {
	return (&url.URL{Path: name}).String()
}
