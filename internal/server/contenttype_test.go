package server

import "testing"

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{name: "HTML", file: "en-US/index.html", want: "text/html"},
		{name: "CSS", file: "assets/site.css", want: "text/css"},
		{name: "JavaScript", file: "app.js", want: "application/javascript"},
		{name: "PNG", file: "logo.png", want: "image/png"},
		{name: "JPEG", file: "photo.jpg", want: "image/jpeg"},
		{name: "GIF", file: "spinner.gif", want: "image/gif"},
		{name: "SVG", file: "icon.svg", want: "image/svg+xml"},
		{name: "Icon", file: "favicon.ico", want: "image/x-icon"},
		{name: "Upper case extension", file: "LOGO.PNG", want: "image/png"},
		{name: "Mixed case extension", file: "Page.HtMl", want: "text/html"},
		{name: "JPEG long form is not in the table", file: "photo.jpeg", want: DefaultContentType},
		{name: "Unknown extension", file: "notes.txt", want: DefaultContentType},
		{name: "No extension", file: "Makefile", want: DefaultContentType},
		{name: "Dot file", file: ".html", want: "text/html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContentType(tt.file); got != tt.want {
				t.Errorf("ContentType(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}
