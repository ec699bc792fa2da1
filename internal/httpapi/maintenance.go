package httpapi

import (
	"net/http"
)

type modeResponse struct {
	ReadDeleteOnly bool `json:"readDeleteOnly"`
}

// modeGet reports whether the unit is in read-delete-only mode.
func modeGet(w http.ResponseWriter, r *http.Request, d Deps) {
	enabled, err := d.Mode.Enabled(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, modeResponse{ReadDeleteOnly: enabled})
}

func modeSet(w http.ResponseWriter, r *http.Request, d Deps) {
	if err := d.Mode.Set(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	w.Write([]byte("read-delete-only mode set"))
}

func modeClear(w http.ResponseWriter, r *http.Request, d Deps) {
	if err := d.Mode.Clear(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	w.Write([]byte("read-delete-only mode cleared"))
}

// eraseLocks clears every lock on the backend. Recovery tool, not a
// normal code path.
func eraseLocks(w http.ResponseWriter, r *http.Request, d Deps) {
	if err := d.Locks.EraseAll(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	w.Write([]byte("all locks erased"))
}
