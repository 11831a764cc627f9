package cleaner

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProberValidate(t *testing.T) {
	big := pngBytes(t, 200, 120)
	boundary := pngBytes(t, 80, 80)
	justOver := pngBytes(t, 81, 81)
	narrow := pngBytes(t, 300, 20)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/big.png":
			w.Write(big)
		case "/boundary.png":
			w.Write(boundary)
		case "/justover.png":
			w.Write(justOver)
		case "/narrow.png":
			w.Write(narrow)
		case "/not-an-image.png":
			w.Write([]byte("this is plain text, not image data"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	prober := NewProber(80, 2*time.Second, nil)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"large image passes", "/big.png", true},
		{"exact minimum fails", "/boundary.png", false},
		{"one pixel over passes", "/justover.png", true},
		{"wide but short fails", "/narrow.png", false},
		{"undecodable data fails", "/not-an-image.png", false},
		{"missing image fails", "/gone.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prober.Validate(server.URL + tt.path)
			if got != tt.want {
				t.Errorf("Validate(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestProberValidateUnreachableHost(t *testing.T) {
	// A closed server forces a transport error on every attempt.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL + "/shot.png"
	server.Close()

	prober := NewProber(80, 500*time.Millisecond, nil)
	if prober.Validate(url) {
		t.Error("Expected validation to fail for unreachable host")
	}
}
