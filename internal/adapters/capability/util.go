package capability

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

// drainAndClose fully drains a response body so the connection can be reused
func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 1<<20))
	return rc.Close()
}

// retryAfter parses a Retry-After header given in seconds
// Returns zero when absent or unparseable
func retryAfter(h http.Header) time.Duration {
	s := h.Get("Retry-After")
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
