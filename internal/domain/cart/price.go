package cart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePrice reads a price label such as "$9.99". The currency symbol is
// optional; the remainder must be a finite, non-negative decimal.
func ParsePrice(label, symbol string) (float64, error) {
	text := strings.TrimSpace(label)
	if symbol != "" {
		text = strings.TrimSpace(strings.TrimPrefix(text, symbol))
	}
	if text == "" {
		return 0, fmt.Errorf("%w: missing price", ErrInvalidProduct)
	}

	price, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparsable price %q", ErrInvalidProduct, label)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, fmt.Errorf("%w: price out of range %q", ErrInvalidProduct, label)
	}

	return price, nil
}
