package domain

import "errors"

// Failure taxonomy. Handlers map these to transport status codes with
// errors.Is; the upstream message rides along via fmt.Errorf("%w") wrapping.
var (
	// ErrUpstreamUnavailable covers transport, auth and 5xx failures from the
	// cloud API.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrCapabilityNotFound means the device lacks an expected status code
	// (e.g. no switch_1 on a toggle request).
	ErrCapabilityNotFound = errors.New("capability not found")

	// ErrCommandRejected means the cloud API declined a command.
	ErrCommandRejected = errors.New("command rejected")

	// ErrStatisticsUnavailable means the daily statistics call failed or
	// returned no result.
	ErrStatisticsUnavailable = errors.New("statistics unavailable")

	// ErrMalformedReading means a log entry carried an unparseable numeric
	// value. Deliberately distinct from "no data": bad data never coerces to 0.
	ErrMalformedReading = errors.New("malformed reading")

	// ErrUnexpectedValueType means switch_1 reported a non-boolean value;
	// logical negation is undefined so the toggle fails instead of coercing.
	ErrUnexpectedValueType = errors.New("unexpected value type")
)
