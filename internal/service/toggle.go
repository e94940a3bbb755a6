package service

import (
	"context"
	"fmt"

	"github.com/Kaua-Lazarim/TesteTuya/internal/domain"
	"github.com/Kaua-Lazarim/TesteTuya/internal/metrics"

	"go.uber.org/zap"
)

// ToggleSwitch reads the current switch_1 state and issues the inverting
// command. Exactly two upstream calls, no retries: a failure after the read
// is reported as rejected without re-reading to confirm final state.
func (s *DeviceService) ToggleSwitch(ctx context.Context, deviceID string) (*domain.ToggleResult, error) {
	points, err := s.client.GetStatus(ctx, deviceID)
	if err != nil {
		metrics.ToggleCommands.WithLabelValues("read_failed").Inc()
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstreamUnavailable, err)
	}

	var switchPoint *domain.StatusPoint
	for i := range points {
		if points[i].Code == domain.CodeSwitch {
			switchPoint = &points[i]
			break
		}
	}
	if switchPoint == nil {
		metrics.ToggleCommands.WithLabelValues("no_capability").Inc()
		return nil, fmt.Errorf("%w: device %s reports no %s", domain.ErrCapabilityNotFound, deviceID, domain.CodeSwitch)
	}

	current, ok := switchPoint.Value.Bool()
	if !ok {
		metrics.ToggleCommands.WithLabelValues("bad_value").Inc()
		return nil, fmt.Errorf("%w: %s is %q, expected boolean",
			domain.ErrUnexpectedValueType, domain.CodeSwitch, switchPoint.Value.String())
	}

	newValue := !current
	command := []domain.Command{{Code: domain.CodeSwitch, Value: newValue}}
	if err := s.client.SendCommands(ctx, deviceID, command); err != nil {
		metrics.ToggleCommands.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: %s", domain.ErrCommandRejected, err)
	}

	metrics.ToggleCommands.WithLabelValues("success").Inc()
	s.logger.Info("[DeviceService] Switch toggled",
		zap.String("device_id", deviceID),
		zap.Bool("new_value", newValue))

	return &domain.ToggleResult{Code: domain.CodeSwitch, NewValue: newValue}, nil
}
