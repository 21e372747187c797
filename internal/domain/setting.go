package domain

import (
	"bytes"
	"encoding/json"
)

// LastReviewedKey is the setting that points at the last reviewed character.
const LastReviewedKey = "last_reviewed_character"

// SettingValue is the JSON body of a setting read or write.
type SettingValue struct {
	Value string `json:"value"`
}

// UnmarshalJSON stores any JSON value as its string representation:
// strings as-is, null as "", everything else as literal JSON text.
func (v *SettingValue) UnmarshalJSON(data []byte) error {
	var body struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	v.Value = CoerceSettingValue(body.Value)
	return nil
}

// CoerceSettingValue converts a raw JSON value to its stored string form.
func CoerceSettingValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
