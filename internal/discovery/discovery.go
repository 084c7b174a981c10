// Package discovery finds the document roots served by the process.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/f4ah6o/localserve/internal/locale"
)

// ErrShallowIndex is returned when an index.html has fewer than two parent
// directories, so no root can be derived from it.
var ErrShallowIndex = errors.New("index.html must live at <root>/<locale>/index.html")

// Mode selects how a root is served.
type Mode int

const (
	// ModeStatic serves files from roots found through index.html markers.
	ModeStatic Mode = iota
	// ModeBrowse lists directories because no index.html exists.
	ModeBrowse
)

func (m Mode) String() string {
	switch m {
	case ModeStatic:
		return "static"
	case ModeBrowse:
		return "browse"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Root is one discovered document root.
type Root struct {
	// Dir is the directory served for this root.
	Dir string
	// Index is the index.html that marked Dir as a root. Empty in browse mode.
	Index string
	// Locale is the canonical tag of the directory holding Index, if it names a locale.
	Locale string
}

// Result is the outcome of a scan.
type Result struct {
	Mode  Mode
	Roots []Root
}

// Discover walks dir in lexical order looking for files named exactly index.html.
//
// Every match yields one root, two directory levels above the match. Without
// any match the result is a single browse-mode root for dir itself.
// Subdirectories that cannot be read are skipped.
func Discover(dir string) (Result, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve directory: %w", err)
	}

	roots, err := scan(os.DirFS(abs), abs)
	if err != nil {
		return Result{}, err
	}

	if len(roots) == 0 {
		return Result{Mode: ModeBrowse, Roots: []Root{{Dir: abs}}}, nil
	}
	return Result{Mode: ModeStatic, Roots: roots}, nil
}

// scan walks fsys, whose root lives at base on disk, and returns one Root per
// index.html in lexical order.
func scan(fsys fs.FS, base string) ([]Root, error) {
	var roots []Root
	err := fs.WalkDir(fsys, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			if rel == "." {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || d.Name() != locale.IndexName {
			return nil
		}

		path := filepath.Join(base, filepath.FromSlash(rel))
		rootDir, err := RootOf(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		tag, _ := locale.Canonical(filepath.Base(filepath.Dir(path)))
		roots = append(roots, Root{Dir: rootDir, Index: path, Locale: tag})
		return nil
	})
	return roots, err
}

// RootOf derives the document root of an index.html path.
//
// The layout convention is <root>/<locale>/index.html, so the root is two
// directory levels above the file. Paths without two parent directories
// return ErrShallowIndex.
func RootOf(indexPath string) (string, error) {
	localeDir := filepath.Dir(filepath.Clean(indexPath))
	if localeDir == "." || localeDir == filepath.Dir(localeDir) {
		return "", ErrShallowIndex
	}
	return filepath.Dir(localeDir), nil
}

// Title returns the trimmed <title> of an HTML page, or "" if it has none or
// cannot be read.
func Title(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
