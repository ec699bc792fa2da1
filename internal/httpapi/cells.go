package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/SystemBuilders/CelLock/internal/message"
)

type cellStatusResponse struct {
	CellID         string `json:"cellID"`
	Status         string `json:"status"`
	ReferenceCount int64  `json:"referenceCount"`
}

// cellStatus reads a cell's lifecycle status together with its live
// reference count.
func cellStatus(w http.ResponseWriter, r *http.Request, d Deps) {
	cellID := mux.Vars(r)["cellID"]

	status, err := d.Cells.GetStatus(r.Context(), cellID)
	if err != nil {
		respondError(w, err)
		return
	}
	count, err := d.Cells.ReferenceCount(r.Context(), cellID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, cellStatusResponse{
		CellID:         cellID,
		Status:         string(status),
		ReferenceCount: count,
	})
}

type messageStatusRequest struct {
	Status string `json:"status"`
}

type messageStatusResponse struct {
	ETag string `json:"etag"`
}

// messageStatus drives one received message through a status change,
// relation side effects included.
func messageStatus(w http.ResponseWriter, r *http.Request, d Deps) {
	vars := mux.Vars(r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req messageStatusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sm := d.Messages(vars["cellID"])
	etag, err := sm.ChangeStatusAndUpdateRelation(r.Context(), vars["messageKey"], message.Status(req.Status))
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("ETag", etag)
	respondJSON(w, messageStatusResponse{ETag: etag})
}
