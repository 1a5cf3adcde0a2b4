// Package debugsrv is an outer-layer HTTP surface for manually exercising
// the host-guest boundary: POST a wasm module and an invocation request,
// get back a wasmhost.Receipt as JSON. It is grounded on
// core/virtual_machine.go's main()'s mux.Router + rate.Limiter + /execute
// handler, generalized from its single hex-bytecode VMContext body to a
// JSON body carrying the module bytes and the request, against the region/host-function
// boundary. It never bypasses the checker or gas metering; every request
// goes through wasmhost.Host exactly as a normal caller would.
package debugsrv

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/vortexchain/wasmhost/internal/backend"
	"github.com/vortexchain/wasmhost/internal/metrics"
	"github.com/vortexchain/wasmhost/pkg/wasmhost"
)

// Options configures a Server for its process lifetime.
type Options struct {
	Addr            string
	RateLimitPerSec float64
	RateLimitBurst  int
	Host            *wasmhost.Host
	Metrics         *metrics.Collector // optional; nil disables /metrics
	Log             *logrus.Logger
}

// Server wraps a mux.Router bound to a shared wasmhost.Host. Every
// /execute request builds a fresh MemStore + SimpleBech32Codec backend;
// the debug server has no persistence of its own, since the core does
// not provide persistent storage itself.
type Server struct {
	opts    Options
	httpSrv *http.Server
	log     *logrus.Logger
}

// executeRequest is the wire body for POST /execute.
type executeRequest struct {
	Code       []byte `json:"code"`       // raw wasm bytes
	Entrypoint string `json:"entrypoint"` // exported function to invoke
	Payload    []byte `json:"payload"`    // bytes written to the guest via a Region
	GasLimit   uint64 `json:"gas_limit"`
	Readonly   bool   `json:"readonly"`
}

// executeResponse mirrors wasmhost.Receipt for JSON marshalling.
type executeResponse struct {
	Status     bool   `json:"status"`
	GasUsed    uint64 `json:"gas_used"`
	ReturnData []byte `json:"return_data,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Error      string `json:"error,omitempty"`
}

// New builds a Server. It does not start listening; call Run.
func New(opts Options) *Server {
	if opts.Log == nil {
		opts.Log = logrus.New()
	}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimitPerSec), opts.RateLimitBurst)

	r := mux.NewRouter()
	r.Use(rateLimit(limiter))

	s := &Server{opts: opts, log: opts.Log}
	r.HandleFunc("/execute", s.handleExecute).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	if opts.Metrics != nil {
		r.Handle("/metrics", promHandler(opts.Metrics)).Methods(http.MethodGet)
	}

	s.httpSrv = &http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
	return s
}

func rateLimit(limiter *rate.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "rate limit", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Entrypoint == "" {
		http.Error(w, "entrypoint is required", http.StatusBadRequest)
		return
	}

	b := backend.Backend{
		Storage: backend.NewMemStore(),
		Address: backend.NewSimpleBech32Codec("wasm1"),
	}

	handle, err := s.opts.Host.Instantiate(req.Code, req.GasLimit, req.Entrypoint, b, req.Readonly)
	if err != nil {
		s.log.WithError(err).Warn("debugsrv: instantiate failed")
		writeReceipt(w, http.StatusOK, &wasmhost.Receipt{
			Status: false,
			Kind:   wasmhost.AsFault(err),
			Error:  err.Error(),
		})
		return
	}
	defer handle.Close()

	rec, callErr := handle.Call(req.Payload)
	if callErr != nil {
		s.log.WithError(callErr).Debug("debugsrv: call returned a fault")
	}
	writeReceipt(w, http.StatusOK, rec)
}

func writeReceipt(w http.ResponseWriter, status int, rec *wasmhost.Receipt) {
	resp := executeResponse{
		Status:     rec.Status,
		GasUsed:    rec.GasUsed,
		ReturnData: rec.ReturnData,
		Error:      rec.Error,
	}
	if rec.Kind != wasmhost.KindNone {
		resp.Kind = rec.Kind.String()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// Run starts the HTTP server and blocks until ctx is cancelled, at which
// point it shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.opts.Addr).Info("debugsrv: listening")
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
