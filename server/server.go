package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/serisow/pdfclerk/handlers"
	"github.com/urfave/negroni"
)

// SetupRoutes wires the local status endpoints. The server is meant for
// loopback use by operators; there is no TLS or authentication layer.
func SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	outcomeHandler := handlers.NewOutcomeHandler()
	r.HandleFunc("/outcomes", outcomeHandler.ListOutcomes).Methods("GET")
	r.HandleFunc("/outcomes/{id}", outcomeHandler.GetOutcome).Methods("GET")
	r.HandleFunc("/healthz", outcomeHandler.Health).Methods("GET")

	return r
}

// Serve runs the status server until it fails; a status server failure
// is logged but never takes the processing loop down with it.
func Serve(port string, n *negroni.Negroni, logger *slog.Logger) {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      n,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("Status server listening", slog.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Status server stopped", slog.String("error", err.Error()))
	}
}
