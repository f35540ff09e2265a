package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/org/repo":
			w.WriteHeader(http.StatusOK)
		case "/org/moved":
			http.Redirect(w, r, "/org/repo", http.StatusFound)
		case "/org/gone":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	probe := NewHTTPProbe(server.Client(), testLog)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"ok", "/org/repo", true},
		{"redirect", "/org/moved", true},
		{"not_found", "/org/gone", false},
		{"server_error", "/org/broken", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := probe(context.Background(), server.URL+tt.path); got != tt.want {
				t.Errorf("probe(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}

	t.Run("network_error", func(t *testing.T) {
		down := httptest.NewServer(http.NotFoundHandler())
		url := down.URL
		down.Close()

		if probe(context.Background(), url+"/org/repo") {
			t.Error("probe() = true for closed server, want false")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer slow.Close()

		slowProbe := NewHTTPProbe(&http.Client{Timeout: 10 * time.Millisecond}, testLog)
		if slowProbe(context.Background(), slow.URL) {
			t.Error("probe() = true for timed out request, want false")
		}
	})
}
