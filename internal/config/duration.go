package config

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"

	"pagewatch/internal/common"
)

// Duration wraps time.Duration so config files can use Go duration strings
// such as "1h" or "90s" in both YAML and JSON.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String returns the standard duration string form.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML parses a duration string from a YAML scalar node.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return common.WrapError(err, "duration must be a string")
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return common.WrapErrorf(err, "invalid duration '%s'", raw)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as its string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalJSON parses a duration string from a JSON string value.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return common.WrapError(err, "duration must be a string")
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return common.WrapErrorf(err, "invalid duration '%s'", raw)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON renders the duration as its string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
