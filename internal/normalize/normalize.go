// Package normalize reconciles the loosely typed telemetry values returned by
// the cloud API into transport-safe scalars. It is applied exactly once per
// upstream response, at the service boundary; normalized output is never fed
// back in.
package normalize

import (
	"math"
	"strconv"

	"github.com/Kaua-Lazarim/TesteTuya/internal/domain"
)

// scaled marks codes whose raw integer value is the physical quantity
// multiplied by 10.
var scaled = map[string]bool{
	domain.CodeVoltage: true,
	domain.CodePower:   true,
}

// Statuses returns a normalized copy of points; the input is never mutated.
// Rules, first match wins:
//  1. absent values stay absent, no coercion attempted
//  2. scaled codes with a finitely numeric value become raw/10, rendered with
//     exactly one decimal digit
//  3. everything else becomes its plain string form
func Statuses(points []domain.StatusPoint) []domain.StatusPoint {
	if points == nil {
		return nil
	}
	out := make([]domain.StatusPoint, len(points))
	for i, p := range points {
		out[i] = Status(p)
	}
	return out
}

// Status normalizes a single status point.
func Status(p domain.StatusPoint) domain.StatusPoint {
	if p.Value.IsAbsent() {
		return p
	}

	if scaled[p.Code] {
		if raw, ok := finiteNumber(p.Value); ok {
			p.Value = domain.TextValue(strconv.FormatFloat(raw/10, 'f', 1, 64))
			return p
		}
		// non-numeric value under a scaled code: fall through, no error
	}

	p.Value = domain.TextValue(p.Value.String())
	return p
}

// Devices normalizes the status list of every device in a listing.
func Devices(devices []domain.Device) []domain.Device {
	if devices == nil {
		return nil
	}
	out := make([]domain.Device, len(devices))
	for i, d := range devices {
		d.Status = Statuses(d.Status)
		out[i] = d
	}
	return out
}

func finiteNumber(v domain.Value) (float64, bool) {
	switch v.Kind() {
	case domain.KindNumber:
		n, _ := v.Number()
		return n, !math.IsInf(n, 0) && !math.IsNaN(n)
	case domain.KindText:
		s, _ := v.Text()
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
