package mw

import (
	"io"
	"net/http"
)

// MethodNotAllowed answers with a bare 405.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_, _ = io.WriteString(w, "Method not allowed")
}
