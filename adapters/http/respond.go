package http

import (
	"encoding/json"
	"net/http"

	"github.com/cosmozoom/tilegate/app"
)

// errorEnvelope is the outer wrapper of every error response.
type errorEnvelope struct {
	Detail interface{} `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the stable {"detail": {...}} error envelope.
func writeError(w http.ResponseWriter, status int, detail *app.ErrorDetail) {
	writeJSON(w, status, errorEnvelope{Detail: detail})
}

// writeResult writes a translated tile result, binary body or error
// envelope.
func writeResult(w http.ResponseWriter, res app.Result) {
	if res.Err != nil {
		writeError(w, res.Status, res.Err)
		return
	}
	for k, v := range res.Headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(res.Status)
	_, _ = w.Write(res.Body)
}
