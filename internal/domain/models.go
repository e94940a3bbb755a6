package domain

// Status point codes the gateway understands. Everything else passes through
// untouched.
const (
	CodeSwitch  = "switch_1"
	CodeVoltage = "cur_voltage"
	CodePower   = "cur_power"
	CodeAddEle  = "add_ele"
	CodeKwh     = "kwh"
)

// StatusPoint is a single (code, value) telemetry pair reported by a device.
type StatusPoint struct {
	Code  string `json:"code"`
	Value Value  `json:"value"`
}

// Device mirrors the upstream device record; the gateway never persists it,
// only passes it through after normalization.
type Device struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	ProductName string        `json:"product_name"`
	Online      bool          `json:"online"`
	Status      []StatusPoint `json:"status"`
}

// Command is one upstream control instruction.
type Command struct {
	Code  string `json:"code"`
	Value any    `json:"value"`
}

// EnergyReading is one entry of the cumulative add_ele counter log.
// Upstream reports values in Wh as strings, newest-first.
type EnergyReading struct {
	Value     string `json:"value"`
	EventTime int64  `json:"event_time"`
}

// DailyEnergy is the derived consumption figure, computed fresh per request.
type DailyEnergy struct {
	DailyKwh string `json:"daily_kwh"`
	Unit     string `json:"unit"`
}

// ToggleResult reports the state a toggle command switched the device to.
type ToggleResult struct {
	Code     string `json:"code"`
	NewValue bool   `json:"new_value"`
}
