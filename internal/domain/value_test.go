package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Value
	}{
		{"boolean", `true`, BoolValue(true)},
		{"integer", `2235`, NumberValue(2235)},
		{"decimal", `21.5`, NumberValue(21.5)},
		{"string", `"223.5"`, TextValue("223.5")},
		{"null", `null`, AbsentValue()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			err := json.Unmarshal([]byte(tt.input), &v)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestValue_UnmarshalJSON_RejectsComposites(t *testing.T) {
	var v Value
	err := json.Unmarshal([]byte(`{"nested":1}`), &v)
	assert.Error(t, err)
}

func TestValue_MarshalRoundTrip(t *testing.T) {
	point := StatusPoint{Code: "switch_1", Value: BoolValue(true)}

	data, err := json.Marshal(point)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"code":"switch_1","value":true}`, string(data))

	var decoded StatusPoint
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, point, decoded)
}

func TestValue_MarshalAbsentAsNull(t *testing.T) {
	data, err := json.Marshal(StatusPoint{Code: "ghost", Value: AbsentValue()})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"code":"ghost","value":null}`, string(data))
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"true", BoolValue(true), "true"},
		{"false", BoolValue(false), "false"},
		{"integer keeps decimal form", NumberValue(15000), "15000"},
		{"fraction", NumberValue(0.5), "0.5"},
		{"text", TextValue("colour"), "colour"},
		{"absent", AbsentValue(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.String())
		})
	}
}

func TestDevice_UnmarshalUpstreamPayload(t *testing.T) {
	payload := `{
		"id": "bf123",
		"name": "Solar Plug",
		"category": "cz",
		"product_name": "Smart Socket",
		"online": true,
		"status": [
			{"code": "switch_1", "value": true},
			{"code": "cur_voltage", "value": 2235},
			{"code": "add_ele", "value": 15000}
		]
	}`

	var device Device
	assert.NoError(t, json.Unmarshal([]byte(payload), &device))
	assert.Equal(t, "bf123", device.ID)
	assert.True(t, device.Online)
	assert.Len(t, device.Status, 3)

	on, ok := device.Status[0].Value.Bool()
	assert.True(t, ok)
	assert.True(t, on)

	voltage, ok := device.Status[1].Value.Number()
	assert.True(t, ok)
	assert.Equal(t, 2235.0, voltage)
}
