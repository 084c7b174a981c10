package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f4ah6o/localserve/internal/logging"
)

func newStaticFixture(t *testing.T) (root string, h http.Handler, rec *logging.Recorder) {
	t.Helper()
	dir := t.TempDir()
	root = filepath.Join(dir, "site")
	writeFile(t, root, "en-US/index.html", "<html><body>home</body></html>")
	writeFile(t, root, "assets/site.css", "body { margin: 0 }")
	writeFile(t, root, "assets/icon.svg", "<svg xmlns=\"http://www.w3.org/2000/svg\"/>")
	writeFile(t, root, "assets/data.bin", "\x00\x01\x02")
	writeFile(t, dir, "secret.txt", "outside the root")

	rec = &logging.Recorder{}
	return root, NewStaticHandler(root, 8080, rec), rec
}

func get(t *testing.T, h http.Handler, method, target string) *http.Response {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w.Result()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestStaticServesFiles(t *testing.T) {
	_, h, _ := newStaticFixture(t)

	tests := []struct {
		name        string
		target      string
		wantType    string
		wantContent string
	}{
		{name: "Stylesheet", target: "/assets/site.css", wantType: "text/css", wantContent: "body { margin: 0 }"},
		{name: "SVG", target: "/assets/icon.svg", wantType: "image/svg+xml", wantContent: "<svg xmlns=\"http://www.w3.org/2000/svg\"/>"},
		{name: "Unknown extension", target: "/assets/data.bin", wantType: "application/octet-stream", wantContent: "\x00\x01\x02"},
		{name: "Locale page", target: "/en-US/index.html", wantType: "text/html", wantContent: "<html><body>home</body></html>"},
		{name: "Escaped path", target: "/assets/site%2Ecss", wantType: "text/css", wantContent: "body { margin: 0 }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, h, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantType, resp.Header.Get("Content-Type"))
			assert.Equal(t, strconv.Itoa(len(tt.wantContent)), resp.Header.Get("Content-Length"))
			assert.Equal(t, tt.wantContent, readBody(t, resp))
		})
	}
}

func TestStaticRootServesDefaultDocument(t *testing.T) {
	_, h, _ := newStaticFixture(t)

	direct := readBody(t, get(t, h, http.MethodGet, "/en-US/index.html"))

	for _, target := range []string{"/", "//", "/./"} {
		resp := get(t, h, http.MethodGet, target)
		assert.Equal(t, http.StatusOK, resp.StatusCode, target)
		assert.Equal(t, "text/html", resp.Header.Get("Content-Type"), target)
		assert.Equal(t, direct, readBody(t, resp), target)
	}
}

func TestStaticRootWithoutDefaultDocument(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ja/index.html", "<html></html>")
	rec := &logging.Recorder{}

	resp := get(t, NewStaticHandler(root, 8081, rec), http.MethodGet, "/")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, []string{"404 Not Found: " + filepath.Join(root, "en-US", "index.html") + " on port 8081"}, rec.Lines())
}

func TestStaticNotFound(t *testing.T) {
	_, h, _ := newStaticFixture(t)

	tests := []struct {
		name   string
		target string
	}{
		{name: "Missing file", target: "/assets/missing.css"},
		{name: "Directory", target: "/assets"},
		{name: "Directory with slash", target: "/assets/"},
		{name: "File used as directory", target: "/assets/site.css/x"},
		{name: "Parent traversal", target: "/../secret.txt"},
		{name: "Encoded traversal", target: "/%2e%2e/secret.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, h, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
			assert.Equal(t, notFoundBody, readBody(t, resp))
		})
	}
}

func TestStaticIgnoresMethod(t *testing.T) {
	_, h, _ := newStaticFixture(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		resp := get(t, h, method, "/assets/site.css")
		assert.Equal(t, http.StatusOK, resp.StatusCode, method)
		assert.Equal(t, "body { margin: 0 }", readBody(t, resp), method)
	}
}

func TestStaticLogsOneLinePerRequest(t *testing.T) {
	root, h, rec := newStaticFixture(t)

	get(t, h, http.MethodGet, "/assets/site.css")
	get(t, h, http.MethodGet, "/nope.js")

	assert.Equal(t, []string{
		"Served: " + filepath.Join(root, "assets", "site.css") + " (text/css) on port 8080",
		"404 Not Found: " + filepath.Join(root, "nope.js") + " on port 8080",
	}, rec.Lines())
}
