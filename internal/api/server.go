// Package api implements the HTTP surface of the pinet service: three
// routes, an API-key gate on the two protected ones, and a small fixed set
// of JSON response shapes. Operation failures are logged server-side and
// never leak to the client.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/fgeck/pinet/internal/models"
	"github.com/fgeck/pinet/internal/services/ping"
	"github.com/fgeck/pinet/internal/services/wol"
	"github.com/fgeck/pinet/internal/validate"
	"github.com/rs/zerolog"
)

// Header carrying the API key on protected routes.
const apiKeyHeader = "X-API-Key"

// Server hosts the HTTP API.
type Server struct {
	cfg     models.ServerConfig
	pingSvc ping.Service
	wolSvc  wol.Service
	logger  zerolog.Logger
	http    *http.Server
}

// New creates a new API server with the default ping and WoL services.
func New(cfg models.ServerConfig, logger zerolog.Logger) *Server {
	return NewWithServices(cfg, logger, ping.New(logger), wol.New(logger, cfg.WOL))
}

// NewWithServices creates a new API server with custom services (for testing).
func NewWithServices(cfg models.ServerConfig, logger zerolog.Logger, pingSvc ping.Service, wolSvc wol.Service) *Server {
	s := &Server{
		cfg:     cfg,
		pingSvc: pingSvc,
		wolSvc:  wolSvc,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("GET /ping/{ip}", s.requireAPIKey(s.handlePing))
	mux.HandleFunc("POST /wol", s.requireAPIKey(s.handleWake))
	mux.HandleFunc("/", s.handleNotFound)

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.recoverPanics(mux),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the server's root handler, middleware included (for testing).
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe binds all interfaces on the configured port and serves
// until Shutdown is called. Always returns a non-nil error; after a clean
// shutdown that error is http.ErrServerClosed.
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.http.Addr).Msg("API server listening")
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// requireAPIKey gates a handler behind an exact match of the configured
// key. Both failure cases log a warning with the caller's address.
func (s *Server) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get(apiKeyHeader)

		if provided == "" {
			s.logger.Warn().
				Str("remote_addr", r.RemoteAddr).
				Msg("unauthorized access attempt: no API key provided")
			s.writeJSON(w, http.StatusUnauthorized, statusResponse{
				Status:  "error",
				Message: "API key required",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(s.cfg.APIKey)) != 1 {
			s.logger.Warn().
				Str("remote_addr", r.RemoteAddr).
				Msg("unauthorized access attempt: invalid API key")
			s.writeJSON(w, http.StatusUnauthorized, statusResponse{
				Status:  "error",
				Message: "Invalid API key",
			})
			return
		}

		next(w, r)
	}
}

// recoverPanics converts an escaped panic into the fixed 500 body. The
// stack stays in the server log.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("handler panicked")
				s.writeJSON(w, http.StatusInternalServerError, statusResponse{
					Status:  "error",
					Message: "An unexpected error occurred",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// handleHealth is the unauthenticated service health check.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Service: ServiceName,
		Status:  "running",
	})
}

// handlePing checks reachability of the IPv4 address in the path.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	ipAddress := r.PathValue("ip")

	if !validate.IPv4(ipAddress) {
		s.logger.Warn().Str("ip", ipAddress).Msg("invalid IP address format received")
		s.writeJSON(w, http.StatusBadRequest, statusResponse{
			Status:  "error",
			Message: "Invalid IP address format.",
		})
		return
	}

	status, err := s.pingSvc.Ping(r.Context(), ipAddress)
	if err != nil {
		s.logger.Error().Err(err).Str("ip", ipAddress).Msg("error executing ping")
		s.writeJSON(w, http.StatusInternalServerError, statusResponse{
			Status:  "error",
			Message: "Internal error executing ping",
		})
		return
	}

	s.writeJSON(w, http.StatusOK, pingResponse{
		IPAddress: ipAddress,
		Status:    string(status),
	})
}

// handleWake broadcasts a Wake-on-LAN magic packet for the MAC address in
// the JSON body.
func (s *Server) handleWake(w http.ResponseWriter, r *http.Request) {
	var req wakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("WoL request received with no JSON body")
		s.writeJSON(w, http.StatusBadRequest, statusResponse{
			Status:  "error",
			Message: "Request body must be JSON",
		})
		return
	}

	if req.MACAddress == "" {
		s.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("WoL request received without mac_address field")
		s.writeJSON(w, http.StatusBadRequest, statusResponse{
			Status:  "error",
			Message: "Missing mac_address field in request body",
		})
		return
	}

	if !validate.MAC(req.MACAddress) {
		s.logger.Warn().Str("mac", req.MACAddress).Msg("invalid MAC address format received")
		s.writeJSON(w, http.StatusBadRequest, statusResponse{
			Status:  "error",
			Message: "Invalid MAC address format.",
		})
		return
	}

	if err := s.wolSvc.Wake(r.Context(), req.MACAddress); err != nil {
		s.logger.Error().Err(err).Str("mac", req.MACAddress).Msg("error sending WoL packet")
		s.writeJSON(w, http.StatusInternalServerError, statusResponse{
			Status:  "error",
			Message: "Failed to send Wake-on-LAN packet",
		})
		return
	}

	s.writeJSON(w, http.StatusOK, statusResponse{
		Status:  "success",
		Message: fmt.Sprintf("Wake-on-LAN packet sent to %s", req.MACAddress),
	})
}

// handleNotFound answers every unmatched route with the fixed JSON body.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn().Str("path", r.URL.Path).Msg("endpoint not found")
	s.writeJSON(w, http.StatusNotFound, statusResponse{
		Status:  "error",
		Message: "Endpoint not found",
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response body")
	}
}
