package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/SystemBuilders/CelLock/internal/coordinator"
	"github.com/SystemBuilders/CelLock/internal/lock"
	"github.com/SystemBuilders/CelLock/internal/message"
)

// Deps carries everything the handlers touch. The bootstrap layer
// fills it once and hands it to SetupRouting.
type Deps struct {
	Locks         *lock.Manager
	Cells         *coordinator.CellStatus
	Mode          *coordinator.ReadDeleteMode
	Accounts      *coordinator.AccountLockout
	AuthIntervals *coordinator.AuthInterval
	// Messages yields the state machine scoped to one cell.
	Messages func(cellID string) *message.StateMachine
	Gatherer prometheus.Gatherer
	Log      zerolog.Logger
}

// SetupRouting adds all the routes on the http server.
func SetupRouting(d Deps, r *mux.Router) *mux.Router {
	r.HandleFunc("/healthz", makeHealthHandler()).Methods(http.MethodGet)
	r.HandleFunc("/maintenance/read-delete-only", makeModeGetHandler(d)).Methods(http.MethodGet)
	r.HandleFunc("/maintenance/read-delete-only", makeModeSetHandler(d)).Methods(http.MethodPut)
	r.HandleFunc("/maintenance/read-delete-only", makeModeClearHandler(d)).Methods(http.MethodDelete)
	r.HandleFunc("/locks", makeEraseLocksHandler(d)).Methods(http.MethodDelete)
	r.HandleFunc("/accounts/{accountID}/failed-auth", makeFailedAuthHandler(d)).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{accountID}", makeAccountStatusHandler(d)).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{accountID}", makeAccountClearHandler(d)).Methods(http.MethodDelete)
	r.HandleFunc("/cells/{cellID}/status", makeCellStatusHandler(d)).Methods(http.MethodGet)
	r.HandleFunc("/cells/{cellID}/messages/{messageKey}/status", makeMessageStatusHandler(d)).Methods(http.MethodPost)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return r
}

func makeHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}
}

func makeModeGetHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modeGet(w, r, d)
	}
}

func makeModeSetHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modeSet(w, r, d)
	}
}

func makeModeClearHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modeClear(w, r, d)
	}
}

func makeEraseLocksHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eraseLocks(w, r, d)
	}
}

func makeFailedAuthHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		failedAuth(w, r, d)
	}
}

func makeAccountStatusHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountStatus(w, r, d)
	}
}

func makeAccountClearHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountClear(w, r, d)
	}
}

func makeCellStatusHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cellStatus(w, r, d)
	}
}

func makeMessageStatusHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageStatus(w, r, d)
	}
}
