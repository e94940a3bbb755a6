package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Kaua-Lazarim/TesteTuya/internal/domain"
	"github.com/Kaua-Lazarim/TesteTuya/internal/metrics"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type DeviceService interface {
	ListDevices(ctx context.Context) ([]domain.Device, error)
	GetDeviceStatus(ctx context.Context, deviceID string) ([]domain.StatusPoint, error)
	SendCommands(ctx context.Context, deviceID string, commands []domain.Command) error
	ToggleSwitch(ctx context.Context, deviceID string) (*domain.ToggleResult, error)
	DailyEnergy(ctx context.Context, deviceID string) (*domain.DailyEnergy, error)
	GetSpecifications(ctx context.Context, deviceID string) (json.RawMessage, error)
}

type HTTPServer struct {
	server  *http.Server
	service DeviceService
	logger  *zap.Logger
}

func NewHTTPServer(addr string, service DeviceService, allowedOrigins []string, logger *zap.Logger) *HTTPServer {
	router := mux.NewRouter()

	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	s := &HTTPServer{
		server: &http.Server{
			Addr:    addr,
			Handler: cors(router),
		},
		service: service,
		logger:  logger,
	}

	router.Use(s.metricsMiddleware)
	router.Use(s.loggingMiddleware)

	router.HandleFunc("/health", s.healthCheck).Methods("GET")
	router.HandleFunc("/api/v1/devices", s.listDevices).Methods("GET")
	router.HandleFunc("/api/v1/devices/{id}/status", s.getDeviceStatus).Methods("GET")
	router.HandleFunc("/api/v1/devices/{id}/commands", s.sendCommands).Methods("POST")
	router.HandleFunc("/api/v1/devices/{id}/toggle", s.toggleSwitch).Methods("POST")
	router.HandleFunc("/api/v1/devices/{id}/energy/daily", s.dailyEnergy).Methods("GET")
	router.HandleFunc("/api/v1/devices/{id}/specifications", s.getSpecifications).Methods("GET")

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return s
}

func (s *HTTPServer) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// responseWriter tracks status code and size for the middleware
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// middleware collecting HTTP metrics, labeled by route template
func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		method := r.Method
		status := strconv.Itoa(rw.statusCode)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		metrics.HTTPRequests.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
		metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(rw.size))
	})
}

// middleware logging HTTP requests
func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("ip", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()),
			zap.Int("status", rw.statusCode),
			zap.Int("response_size", rw.size),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// writeError maps the failure taxonomy onto transport status codes. Only the
// upstream message text leaks out, never internals.
func (s *HTTPServer) writeError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrCapabilityNotFound) {
		status = http.StatusNotFound
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(map[string]string{
		"message": message,
		"error":   err.Error(),
	}); encodeErr != nil {
		s.logger.Error("Failed to encode error response", zap.Error(encodeErr))
	}
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (s *HTTPServer) healthCheck(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "healthy"})
}

func (s *HTTPServer) listDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.service.ListDevices(r.Context())
	if err != nil {
		s.logger.Error("Failed to list devices", zap.Error(err))
		s.writeError(w, "Failed to fetch devices", err)
		return
	}

	s.writeJSON(w, devices)
}

func (s *HTTPServer) getDeviceStatus(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["id"]

	points, err := s.service.GetDeviceStatus(r.Context(), deviceID)
	if err != nil {
		s.logger.Error("Failed to get device status", zap.String("device_id", deviceID), zap.Error(err))
		s.writeError(w, "Failed to fetch device status", err)
		return
	}

	s.writeJSON(w, map[string]any{"result": points})
}

type commandsRequest struct {
	Commands []domain.Command `json:"commands"`
}

func (s *HTTPServer) sendCommands(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["id"]

	var req commandsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Commands) == 0 {
		http.Error(w, "commands are required", http.StatusBadRequest)
		return
	}

	if err := s.service.SendCommands(r.Context(), deviceID, req.Commands); err != nil {
		s.logger.Error("Failed to send commands", zap.String("device_id", deviceID), zap.Error(err))
		s.writeError(w, "Failed to send commands", err)
		return
	}

	s.writeJSON(w, map[string]any{"success": true, "message": "Commands sent"})
}

func (s *HTTPServer) toggleSwitch(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["id"]

	result, err := s.service.ToggleSwitch(r.Context(), deviceID)
	if err != nil {
		s.logger.Error("Failed to toggle switch", zap.String("device_id", deviceID), zap.Error(err))
		s.writeError(w, "Failed to toggle switch", err)
		return
	}

	s.writeJSON(w, map[string]any{
		"success": true,
		"message": result.Code + " set to " + strconv.FormatBool(result.NewValue),
	})
}

func (s *HTTPServer) dailyEnergy(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["id"]

	result, err := s.service.DailyEnergy(r.Context(), deviceID)
	if err != nil {
		s.logger.Error("Failed to compute daily energy", zap.String("device_id", deviceID), zap.Error(err))
		s.writeError(w, "Failed to compute daily energy", err)
		return
	}

	s.writeJSON(w, result)
}

func (s *HTTPServer) getSpecifications(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["id"]

	spec, err := s.service.GetSpecifications(r.Context(), deviceID)
	if err != nil {
		s.logger.Error("Failed to get device specifications", zap.String("device_id", deviceID), zap.Error(err))
		s.writeError(w, "Failed to fetch device specifications", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(spec); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}
