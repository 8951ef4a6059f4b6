package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"github.com/jsphweid/tonalpalette/config"
	"github.com/jsphweid/tonalpalette/midi"
	"github.com/jsphweid/tonalpalette/model"
	"github.com/jsphweid/tonalpalette/pipeline"
)

type api struct {
	p *pipeline.Pipeline
}

// NewRouter exposes the pipeline's snapshots and controls over HTTP.
func NewRouter(p *pipeline.Pipeline) *mux.Router {
	a := &api{p: p}
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/estimation", a.handleEstimation).Methods("GET")
	router.HandleFunc("/entities", a.handleEntities).Methods("GET")
	router.HandleFunc("/devices", a.handleDevices).Methods("GET")
	router.HandleFunc("/devices", a.handleSelectDevices).Methods("PUT")
	router.HandleFunc("/controls", a.handleControls).Methods("GET")
	router.HandleFunc("/window", a.handleWindow).Methods("PUT")
	router.HandleFunc("/clear", a.handleClear).Methods("POST")
	return router
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Warn("could not write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func (a *api) handleEstimation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.p.Estimation())
}

func (a *api) handleEntities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.p.Frame())
}

func (a *api) handleDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.p.Devices())
}

func (a *api) handleSelectDevices(w http.ResponseWriter, r *http.Request) {
	var input model.DevicesRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not decode request body"))
		return
	}
	if err := a.p.SelectDevices(input.Devices); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, midi.ErrPlatformEnable) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, a.p.Devices())
}

func (a *api) handleControls(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.p.Controls())
}

func (a *api) handleWindow(w http.ResponseWriter, r *http.Request) {
	var input model.WindowRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not decode request body"))
		return
	}
	if err := a.p.SetWindowSize(input.Size); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, a.p.Estimation())
}

func (a *api) handleClear(w http.ResponseWriter, r *http.Request) {
	a.p.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// serve blocks until ctx is done, then shuts the server down.
func serve(ctx context.Context, addr string, p *pipeline.Pipeline) error {
	handler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost},
	}).Handler(NewRouter(p))
	server := &http.Server{Addr: addr, Handler: handler}

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()
	logger.WithField("addr", addr).Info("serving")

	select {
	case err := <-errs:
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Wrap(server.Shutdown(shutdownCtx), "shutting down")
}
