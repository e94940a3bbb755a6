package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kaua-Lazarim/TesteTuya/internal/domain"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListDevices(ctx context.Context) ([]domain.Device, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Device), args.Error(1)
}

func (m *MockService) GetDeviceStatus(ctx context.Context, deviceID string) ([]domain.StatusPoint, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusPoint), args.Error(1)
}

func (m *MockService) SendCommands(ctx context.Context, deviceID string, commands []domain.Command) error {
	args := m.Called(ctx, deviceID, commands)
	return args.Error(0)
}

func (m *MockService) ToggleSwitch(ctx context.Context, deviceID string) (*domain.ToggleResult, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToggleResult), args.Error(1)
}

func (m *MockService) DailyEnergy(ctx context.Context, deviceID string) (*domain.DailyEnergy, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyEnergy), args.Error(1)
}

func (m *MockService) GetSpecifications(ctx context.Context, deviceID string) (json.RawMessage, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func newTestServer(service DeviceService) *HTTPServer {
	logger, _ := zap.NewDevelopment()
	return NewHTTPServer(":3001", service, []string{"*"}, logger)
}

func TestHTTPServer_HealthCheck(t *testing.T) {
	server := newTestServer(new(MockService))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	server.healthCheck(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestHTTPServer_ListDevices(t *testing.T) {
	mockService := new(MockService)
	server := newTestServer(mockService)

	devices := []domain.Device{
		{
			ID:     "dev-1",
			Name:   "Solar Plug",
			Online: true,
			Status: []domain.StatusPoint{
				{Code: "switch_1", Value: domain.TextValue("true")},
			},
		},
	}
	mockService.On("ListDevices", mock.Anything).Return(devices, nil)

	req := httptest.NewRequest("GET", "/api/v1/devices", nil)
	w := httptest.NewRecorder()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/devices", server.listDevices).Methods("GET")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []domain.Device
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, "dev-1", response[0].ID)
	mockService.AssertExpectations(t)
}

func TestHTTPServer_GetDeviceStatus_WrapsResult(t *testing.T) {
	mockService := new(MockService)
	server := newTestServer(mockService)

	mockService.On("GetDeviceStatus", mock.Anything, "dev-1").Return([]domain.StatusPoint{
		{Code: "cur_voltage", Value: domain.TextValue("223.5")},
	}, nil)

	req := httptest.NewRequest("GET", "/api/v1/devices/dev-1/status", nil)
	w := httptest.NewRecorder()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/devices/{id}/status", server.getDeviceStatus).Methods("GET")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":[{"code":"cur_voltage","value":"223.5"}]}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestHTTPServer_SendCommands(t *testing.T) {
	mockService := new(MockService)
	server := newTestServer(mockService)

	commands := []domain.Command{{Code: "switch_1", Value: true}}
	mockService.On("SendCommands", mock.Anything, "dev-1", mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]any{"commands": commands})
	req := httptest.NewRequest("POST", "/api/v1/devices/dev-1/commands", bytes.NewReader(body))
	w := httptest.NewRecorder()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/devices/{id}/commands", server.sendCommands).Methods("POST")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	mockService.AssertExpectations(t)
}

func TestHTTPServer_SendCommands_EmptyBody(t *testing.T) {
	server := newTestServer(new(MockService))

	req := httptest.NewRequest("POST", "/api/v1/devices/dev-1/commands", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/devices/{id}/commands", server.sendCommands).Methods("POST")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTPServer_ToggleSwitch(t *testing.T) {
	mockService := new(MockService)
	server := newTestServer(mockService)

	mockService.On("ToggleSwitch", mock.Anything, "dev-1").
		Return(&domain.ToggleResult{Code: "switch_1", NewValue: false}, nil)

	req := httptest.NewRequest("POST", "/api/v1/devices/dev-1/toggle", nil)
	w := httptest.NewRecorder()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/devices/{id}/toggle", server.toggleSwitch).Methods("POST")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "switch_1 set to false")
	mockService.AssertExpectations(t)
}

func TestHTTPServer_ToggleSwitch_NoCapabilityIs404(t *testing.T) {
	mockService := new(MockService)
	server := newTestServer(mockService)

	mockService.On("ToggleSwitch", mock.Anything, "dev-1").
		Return(nil, fmt.Errorf("%w: device dev-1 reports no switch_1", domain.ErrCapabilityNotFound))

	req := httptest.NewRequest("POST", "/api/v1/devices/dev-1/toggle", nil)
	w := httptest.NewRecorder()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/devices/{id}/toggle", server.toggleSwitch).Methods("POST")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "switch_1")
}

func TestHTTPServer_ToggleSwitch_UpstreamFailureIs500(t *testing.T) {
	mockService := new(MockService)
	server := newTestServer(mockService)

	mockService.On("ToggleSwitch", mock.Anything, "dev-1").
		Return(nil, fmt.Errorf("%w: connection refused", domain.ErrUpstreamUnavailable))

	req := httptest.NewRequest("POST", "/api/v1/devices/dev-1/toggle", nil)
	w := httptest.NewRecorder()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/devices/{id}/toggle", server.toggleSwitch).Methods("POST")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHTTPServer_DailyEnergy(t *testing.T) {
	mockService := new(MockService)
	server := newTestServer(mockService)

	mockService.On("DailyEnergy", mock.Anything, "dev-1").
		Return(&domain.DailyEnergy{DailyKwh: "3.000", Unit: "kWh"}, nil)

	req := httptest.NewRequest("GET", "/api/v1/devices/dev-1/energy/daily", nil)
	w := httptest.NewRecorder()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/devices/{id}/energy/daily", server.dailyEnergy).Methods("GET")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"daily_kwh":"3.000","unit":"kWh"}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestHTTPServer_DailyEnergy_StatisticsUnavailableIs500(t *testing.T) {
	mockService := new(MockService)
	server := newTestServer(mockService)

	mockService.On("DailyEnergy", mock.Anything, "dev-1").
		Return(nil, fmt.Errorf("%w: no result", domain.ErrStatisticsUnavailable))

	req := httptest.NewRequest("GET", "/api/v1/devices/dev-1/energy/daily", nil)
	w := httptest.NewRecorder()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/devices/{id}/energy/daily", server.dailyEnergy).Methods("GET")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHTTPServer_GetSpecifications_Passthrough(t *testing.T) {
	mockService := new(MockService)
	server := newTestServer(mockService)

	raw := json.RawMessage(`{"category":"cz","functions":[]}`)
	mockService.On("GetSpecifications", mock.Anything, "dev-1").Return(raw, nil)

	req := httptest.NewRequest("GET", "/api/v1/devices/dev-1/specifications", nil)
	w := httptest.NewRecorder()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/devices/{id}/specifications", server.getSpecifications).Methods("GET")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, string(raw), w.Body.String())
	mockService.AssertExpectations(t)
}
