package api

import (
	"encoding/json"
	"fmt"
)

// Envelope is the backend's common response wrapper. Not every endpoint uses
// it; some return the payload bare.
type Envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// UnwrapData decodes body into out, accepting both the `{data:…}` envelope and
// a bare payload. A nil out discards the body.
func UnwrapData(body []byte, out any) error {
	if out == nil {
		return nil
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err == nil {
			return nil
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unsupported response format: %w", err)
	}
	return nil
}
