package api

import (
	"bufio"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Hijack lets websocket upgrades pass through the middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// loggingMiddleware logs one line per request. Live feeds are logged when the
// socket closes.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		log.Printf(
			"session=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			sessionFromPath(r.URL.Path), r.Method, r.URL.RequestURI(), sw.status, sw.bytes,
			time.Since(start).Milliseconds(),
		)
	})
}

// sessionFromPath returns the {id} segment of /sessions/{id}/..., or "-".
func sessionFromPath(path string) string {
	rest, ok := strings.CutPrefix(path, "/sessions/")
	if !ok {
		return "-"
	}
	id, _, _ := strings.Cut(rest, "/")
	if id == "" {
		return "-"
	}
	return id
}
