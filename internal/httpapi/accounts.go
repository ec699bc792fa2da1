package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

type accountStatusResponse struct {
	AccountID      string `json:"accountID"`
	Locked         bool   `json:"locked"`
	InAuthInterval bool   `json:"inAuthInterval"`
}

// failedAuth records one failed authentication: it bumps the lockout
// counter and opens the re-authentication interval.
func failedAuth(w http.ResponseWriter, r *http.Request, d Deps) {
	accountID := mux.Vars(r)["accountID"]

	if err := d.Accounts.RecordFailedAuth(r.Context(), accountID); err != nil {
		respondError(w, err)
		return
	}
	if err := d.AuthIntervals.RecordAttempt(r.Context(), accountID); err != nil {
		respondError(w, err)
		return
	}
	w.Write([]byte("failed authentication recorded"))
}

// accountStatus reports whether the account is locked out and whether
// it is still inside the re-authentication interval.
func accountStatus(w http.ResponseWriter, r *http.Request, d Deps) {
	accountID := mux.Vars(r)["accountID"]

	locked, err := d.Accounts.IsLocked(r.Context(), accountID)
	if err != nil {
		respondError(w, err)
		return
	}
	inInterval, err := d.AuthIntervals.InInterval(r.Context(), accountID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, accountStatusResponse{
		AccountID:      accountID,
		Locked:         locked,
		InAuthInterval: inInterval,
	})
}

// accountClear lifts the lockout.
func accountClear(w http.ResponseWriter, r *http.Request, d Deps) {
	if err := d.Accounts.Clear(r.Context(), mux.Vars(r)["accountID"]); err != nil {
		respondError(w, err)
		return
	}
	w.Write([]byte("account lockout cleared"))
}
