package middleware

import "net/http"

// CORS allows any origin to read the indexer's public API, restricted to
// the methods the read/write surface actually uses.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
 w.Header().Set("Access-Control-Allow-Origin", "*")
 w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
 w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

 if r.Method == http.MethodOptions {
 w.WriteHeader(http.StatusNoContent)
 return
 }

 next.ServeHTTP(w, r)
	})
}
