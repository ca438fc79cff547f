package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		label string
		want  float64
	}{
		{"$9.99", 9.99},
		{"  $ 24.50 ", 24.5},
		{"4", 4},
		{"$0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParsePrice(tt.label, "$")
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParsePriceRejects(t *testing.T) {
	for _, label := range []string{"", "$", "free", "$-1", "NaN", "$Inf", "€3"} {
		t.Run(label, func(t *testing.T) {
			_, err := ParsePrice(label, "$")
			assert.ErrorIs(t, err, ErrInvalidProduct)
		})
	}
}

func TestSnapshotFormat(t *testing.T) {
	data, err := EncodeSnapshot([]CartLine{{Name: "Mug", UnitPrice: 9.99, ImageRef: "mug.png", Quantity: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Mug","price":9.99,"image":"mug.png","quantity":2}]`, data)

	empty, err := EncodeSnapshot(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)

	lines, err := DecodeSnapshot("null")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestDecodeSnapshotRejects(t *testing.T) {
	tests := map[string]string{
		"not json":       `{"name":`,
		"object":         `{"name":"Mug"}`,
		"missing name":   `[{"price":1,"image":"x","quantity":1}]`,
		"duplicate":      `[{"name":"Mug","quantity":1},{"name":"Mug","quantity":2}]`,
		"negative qty":   `[{"name":"Mug","price":1,"quantity":-1}]`,
		"negative price": `[{"name":"Mug","price":-1,"quantity":1}]`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSnapshot(data)
			assert.ErrorIs(t, err, ErrCorruptSnapshot)
		})
	}
}
