package cart

import (
	"encoding/json"
	"fmt"
)

// EncodeSnapshot serializes lines as the persisted JSON array
func EncodeSnapshot(lines []CartLine) (string, error) {
	if lines == nil {
		lines = []CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("failed to encode cart snapshot: %w", err)
	}

	return string(data), nil
}

// DecodeSnapshot parses a persisted JSON array and checks that it still
// satisfies the cart invariants.
func DecodeSnapshot(data string) ([]CartLine, error) {
	var lines []CartLine
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	seen := make(map[string]struct{}, len(lines))
	for i, line := range lines {
		if line.Name == "" {
			return nil, fmt.Errorf("%w: line %d has no name", ErrCorruptSnapshot, i)
		}
		if _, dup := seen[line.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate line %q", ErrCorruptSnapshot, line.Name)
		}
		if line.UnitPrice < 0 || line.Quantity < 0 {
			return nil, fmt.Errorf("%w: line %q has negative price or quantity", ErrCorruptSnapshot, line.Name)
		}
		seen[line.Name] = struct{}{}
	}

	if lines == nil {
		lines = []CartLine{}
	}

	return lines, nil
}
