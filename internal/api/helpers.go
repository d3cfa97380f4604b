package api

import (
	"encoding/json"
	"net/http"

	"github.com/graphrapids/graphsettings/internal/scoped"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeNormalized sends a failure in the normalized {message, status,
// fieldErrors} shape at its own status.
func writeNormalized(w http.ResponseWriter, nerr *scoped.Error) {
	writeJSON(w, nerr.Status, nerr)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeNormalized(w, scoped.NormalizeErr(errString(message), status))
}

type errString string

func (e errString) Error() string { return string(e) }

// decodeBody reads a JSON object request body.
func decodeBody(r *http.Request) (map[string]any, *scoped.Error) {
	var input map[string]any
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return nil, scoped.NormalizeErr(err, http.StatusBadRequest)
	}
	return input, nil
}
