package repository

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

// Probe reports whether the given repository URL is reachable.
// Implementations must collapse network errors, timeouts and non-success
// statuses into a false result.
type Probe func(ctx context.Context, url string) bool

// NewHTTPProbe returns a Probe which issues a GET request against the
// url with the given client. Any response with a status below 400
// counts as reachable.
func NewHTTPProbe(client *http.Client, log *slog.Logger) Probe {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}

	return func(ctx context.Context, url string) bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			log.Error("unable to create probe request", "url", url, "err", err)
			return false
		}

		resp, err := client.Do(req)
		if err != nil {
			log.Log(ctx, -8, "probe request failed", "url", url, "err", err)
			return false
		}
		defer resp.Body.Close()

		// drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)

		log.Log(ctx, -8, "probe response", "url", url, "status", resp.StatusCode)
		return resp.StatusCode < http.StatusBadRequest
	}
}
