package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Kaua-Lazarim/TesteTuya/internal/config"
	"github.com/Kaua-Lazarim/TesteTuya/internal/domain"
	"github.com/Kaua-Lazarim/TesteTuya/internal/metrics"
	"github.com/Kaua-Lazarim/TesteTuya/pkg/utils"

	"go.uber.org/zap"
)

// logTypeReport is the upstream log type for device-reported data points.
const logTypeReport = 7

// statisticsCodes are the codes requested from the daily statistics bucket.
var statisticsCodes = []string{domain.CodeKwh, domain.CodePower, domain.CodeAddEle}

// DailyEnergy derives today's consumption using the configured strategy.
//
// The two strategies intentionally diverge: the statistics bucket renders two
// decimals and defaults a missing day key to zero, the log differencing
// renders three decimals and returns zero only for an empty log. Keep both
// behaviors independent; unifying them changes the API surface.
func (s *DeviceService) DailyEnergy(ctx context.Context, deviceID string) (*domain.DailyEnergy, error) {
	var (
		result *domain.DailyEnergy
		err    error
	)

	switch s.strategy {
	case config.EnergyStrategyStatistics:
		result, err = s.dailyEnergyFromStatistics(ctx, deviceID)
	default:
		result, err = s.dailyEnergyFromLogs(ctx, deviceID)
	}

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.EnergyQueries.WithLabelValues(s.strategy, outcome).Inc()
	return result, err
}

// dailyEnergyFromStatistics reads the pre-aggregated per-day bucket for
// today. A response missing today's key means no consumption recorded, not
// an error.
func (s *DeviceService) dailyEnergyFromStatistics(ctx context.Context, deviceID string) (*domain.DailyEnergy, error) {
	day := utils.FormatDay(s.now())

	stats, err := s.client.GetDailyStatistics(ctx, deviceID, statisticsCodes, day, day)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrStatisticsUnavailable, err)
	}
	if stats == nil {
		return nil, fmt.Errorf("%w: empty statistics response", domain.ErrStatisticsUnavailable)
	}

	values := map[string]float64{}
	if stats.Values != "" {
		if err := json.Unmarshal([]byte(stats.Values), &values); err != nil {
			return nil, fmt.Errorf("%w: decode values map: %s", domain.ErrStatisticsUnavailable, err)
		}
	}

	wh := values[day] // missing day key defaults to 0

	s.logger.Debug("[DeviceService] Daily energy from statistics",
		zap.String("device_id", deviceID),
		zap.String("day", day),
		zap.Float64("wh", wh))

	return &domain.DailyEnergy{
		DailyKwh: strconv.FormatFloat(wh/1000, 'f', 2, 64),
		Unit:     "kWh",
	}, nil
}

// dailyEnergyFromLogs differences the cumulative add_ele counter over
// [start of local day, now]. The upstream log is newest-first, so the latest
// reading is the first entry and the earliest is the last.
func (s *DeviceService) dailyEnergyFromLogs(ctx context.Context, deviceID string) (*domain.DailyEnergy, error) {
	startMs, endMs := utils.DayWindow(s.now())

	readings, err := s.client.GetLogs(ctx, deviceID, []string{domain.CodeAddEle}, logTypeReport, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstreamUnavailable, err)
	}

	// zero-reading day: no consumption recorded yet
	if len(readings) == 0 {
		return &domain.DailyEnergy{DailyKwh: "0.00", Unit: "kWh"}, nil
	}

	latest, err := parseCounter(readings[0])
	if err != nil {
		return nil, err
	}
	earliest, err := parseCounter(readings[len(readings)-1])
	if err != nil {
		return nil, err
	}

	kwh := (latest - earliest) / 1000

	s.logger.Debug("[DeviceService] Daily energy from log differencing",
		zap.String("device_id", deviceID),
		zap.Float64("earliest_wh", earliest),
		zap.Float64("latest_wh", latest),
		zap.Int("readings", len(readings)))

	return &domain.DailyEnergy{
		DailyKwh: strconv.FormatFloat(kwh, 'f', 3, 64),
		Unit:     "kWh",
	}, nil
}

// parseCounter parses one cumulative counter reading. Bad data is surfaced,
// never silently coerced to zero.
func parseCounter(r domain.EnergyReading) (float64, error) {
	wh, err := strconv.ParseFloat(r.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: counter value %q at %d", domain.ErrMalformedReading, r.Value, r.EventTime)
	}
	return wh, nil
}
