package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
)

// Serve runs the maintenance HTTP server on addr until the process is
// told to stop.
func Serve(d Deps, addr string) error {
	if err := checkValidAddr(addr); err != nil {
		return err
	}

	router := mux.NewRouter()
	router = SetupRouting(d, router)

	server := &http.Server{
		Handler: router,
		Addr:    addr,
	}

	go gracefulShutdown(server, d)

	d.
		Log.
		Info().
		Str("addr", addr).
		Msg("starting server")
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// gracefulShutdown shuts down the server on getting a ^C signal.
func gracefulShutdown(server *http.Server, d Deps) {
	interruptChan := make(chan os.Signal, 1)
	signal.Notify(interruptChan, os.Interrupt, syscall.SIGTERM)

	// Block until we receive our signal.
	<-interruptChan

	// Create a deadline to wait for currently serving items.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	server.Shutdown(ctx)

	d.
		Log.
		Info().
		Msg("shutting down")
}

func checkValidAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	portInt, err := strconv.Atoi(port)
	if err != nil {
		return err
	}
	if portInt < 1 || portInt > 65535 {
		return errors.New("port number outside 1-65535")
	}
	return nil
}
