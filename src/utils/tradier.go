package utils

import (
	"encoding/json"
	"fmt"
)

// ParseTradierResponse unwraps Tradier's envelope format, e.g.
// {"orders":{"order":[...]}} or {"orders":{"order":{...}}} or {"orders":"null"}.
// The inner value may be a single object or an array of objects.
func ParseTradierResponse[T any](response []byte) ([]T, error) {
	header := make(map[string]json.RawMessage)

	if err := json.Unmarshal(response, &header); err != nil {
		return nil, fmt.Errorf("ParseTradierResponse(): failed to unmarshal header in response: %w", err)
	}

	if len(header) != 1 {
		return nil, fmt.Errorf("ParseTradierResponse(): expected 1 key in header, got %v: %v", len(header), header)
	}

	var inner json.RawMessage
	for k := range header {
		inner = header[k]
	}

	if string(inner) == "\"null\"" || string(inner) == "null" {
		return []T{}, nil
	}

	data := make(map[string]json.RawMessage)
	if err := json.Unmarshal(inner, &data); err != nil {
		return nil, fmt.Errorf("ParseTradierResponse(): failed to unmarshal data in response: %w", err)
	}

	if len(data) != 1 {
		return nil, fmt.Errorf("ParseTradierResponse(): expected 1 key in data, got %v: %v", len(data), data)
	}

	var payload json.RawMessage
	for k := range data {
		payload = data[k]
	}

	var dtos []T

	var singleDTO T
	if err := json.Unmarshal(payload, &singleDTO); err == nil {
		dtos = append(dtos, singleDTO)
	} else {
		if err := json.Unmarshal(payload, &dtos); err != nil {
			return nil, fmt.Errorf("ParseTradierResponse(): failed to unmarshal dtos in response: %w", err)
		}
	}

	return dtos, nil
}
