// Package common holds small helpers shared across packages.
package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON unmarshals a JSON object out of an LLM reply into T. Replies
// often arrive wrapped in markdown fences or surrounding prose, so
// everything outside the outermost braces is discarded first.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	start := strings.IndexByte(response, '{')
	end := strings.LastIndexByte(response, '}')
	if start == -1 || end <= start {
		return zero, fmt.Errorf("no JSON object found in reply")
	}

	var out T
	if err := json.Unmarshal([]byte(response[start:end+1]), &out); err != nil {
		return zero, fmt.Errorf("failed to unmarshal reply JSON: %w", err)
	}
	return out, nil
}
