package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// writeJSON writes data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, data any, code int) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "error marshalling json response", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		slog.ErrorContext(r.Context(), "error writing json response", "error", err)
	}
}

// writeJSONError writes a json error body with the given status code.
func writeJSONError(w http.ResponseWriter, r *http.Request, msg string, code int) {
	type body struct {
		Error  string `json:"error"`
		Status string `json:"status"`
	}
	writeJSON(w, r, body{Error: msg, Status: "error"}, code)
}

// positiveParam parses a positive integer query parameter. It returns def
// when the parameter is absent and 0 when it is present but not a positive
// integer no greater than max.
func positiveParam(r *http.Request, key string, def, max int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > max {
		return 0
	}
	return v
}

// intParam parses an integer query parameter, falling back to def when
// absent or unparsable.
func intParam(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
