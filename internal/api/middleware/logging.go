package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

type responseWriter struct {
	http.ResponseWriter
	status int
	size int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// RequestLogging logs every HTTP request with method, path, status, duration, and remote address.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
 start := time.Now()

 rw := &responseWriter{
 ResponseWriter: w,
 status: http.StatusOK,
 }

 next.ServeHTTP(rw, r)

 duration := time.Since(start)

 slog.Info("http request",
 "method", r.Method,
 "path", r.URL.Path,
 "status", rw.status,
 "duration", duration.String(),
 "size", rw.size,
 "remoteAddr", r.RemoteAddr,
 "userAgent", r.UserAgent(),
 )
	})
}
