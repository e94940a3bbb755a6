package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Kaua-Lazarim/TesteTuya/internal/domain"
	"github.com/Kaua-Lazarim/TesteTuya/internal/normalize"
	"github.com/Kaua-Lazarim/TesteTuya/internal/tuya"

	"go.uber.org/zap"
)

// TuyaClient is the upstream adapter contract the service consumes.
type TuyaClient interface {
	ListDevices(ctx context.Context, uid string) ([]domain.Device, error)
	GetStatus(ctx context.Context, deviceID string) ([]domain.StatusPoint, error)
	SendCommands(ctx context.Context, deviceID string, commands []domain.Command) error
	GetDailyStatistics(ctx context.Context, deviceID string, codes []string, startDay, endDay string) (*tuya.StatisticsResult, error)
	GetLogs(ctx context.Context, deviceID string, codes []string, logType int, start, end int64) ([]domain.EnergyReading, error)
	GetSpecifications(ctx context.Context, deviceID string) (json.RawMessage, error)
}

// DeviceService implements the gateway's core operations on top of the
// upstream client: listing and status with value normalization, command
// passthrough, switch toggling and daily energy derivation.
type DeviceService struct {
	client   TuyaClient
	uid      string
	strategy string
	logger   *zap.Logger
	now      func() time.Time
}

func NewDeviceService(client TuyaClient, uid, energyStrategy string, logger *zap.Logger) *DeviceService {
	return &DeviceService{
		client:   client,
		uid:      uid,
		strategy: energyStrategy,
		logger:   logger,
		now:      time.Now,
	}
}

// ListDevices returns the account's devices with every status value
// normalized for transport.
func (s *DeviceService) ListDevices(ctx context.Context) ([]domain.Device, error) {
	devices, err := s.client.ListDevices(ctx, s.uid)
	if err != nil {
		s.logger.Error("[DeviceService] Failed to list devices", zap.Error(err))
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstreamUnavailable, err)
	}

	return normalize.Devices(devices), nil
}

// GetDeviceStatus returns the normalized status list for one device.
func (s *DeviceService) GetDeviceStatus(ctx context.Context, deviceID string) ([]domain.StatusPoint, error) {
	points, err := s.client.GetStatus(ctx, deviceID)
	if err != nil {
		s.logger.Error("[DeviceService] Failed to get device status",
			zap.String("device_id", deviceID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstreamUnavailable, err)
	}

	return normalize.Statuses(points), nil
}

// SendCommands dispatches raw commands to a device without transformation.
func (s *DeviceService) SendCommands(ctx context.Context, deviceID string, commands []domain.Command) error {
	if err := s.client.SendCommands(ctx, deviceID, commands); err != nil {
		s.logger.Error("[DeviceService] Failed to send commands",
			zap.String("device_id", deviceID),
			zap.Int("command_count", len(commands)),
			zap.Error(err))
		return fmt.Errorf("%w: %s", domain.ErrCommandRejected, err)
	}

	s.logger.Info("[DeviceService] Commands dispatched",
		zap.String("device_id", deviceID),
		zap.Int("command_count", len(commands)))
	return nil
}

// GetSpecifications passes the upstream capability metadata through untouched.
func (s *DeviceService) GetSpecifications(ctx context.Context, deviceID string) (json.RawMessage, error) {
	spec, err := s.client.GetSpecifications(ctx, deviceID)
	if err != nil {
		s.logger.Error("[DeviceService] Failed to get device specifications",
			zap.String("device_id", deviceID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstreamUnavailable, err)
	}
	return spec, nil
}
