package locale

import (
	"path/filepath"
	"testing"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name    string
		segment string
		want    string
		wantOK  bool
	}{
		{name: "Lower case region", segment: "en-us", want: "en-US", wantOK: true},
		{name: "Already canonical", segment: "en-US", want: "en-US", wantOK: true},
		{name: "Underscore separator", segment: "pt_br", want: "pt-BR", wantOK: true},
		{name: "Language only", segment: "ja", want: "ja", wantOK: true},
		{name: "Asset directory", segment: "assets", wantOK: false},
		{name: "Three letters", segment: "img", wantOK: false},
		{name: "Empty", segment: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Canonical(tt.segment)
			if ok != tt.wantOK {
				t.Fatalf("Canonical(%q) ok = %v, want %v", tt.segment, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.segment, got, tt.want)
			}
		})
	}
}

func TestDefaultDocument(t *testing.T) {
	root := filepath.Join("srv", "site")
	want := filepath.Join("srv", "site", "en-US", "index.html")
	if got := DefaultDocument(root); got != want {
		t.Errorf("DefaultDocument() = %q, want %q", got, want)
	}
}
