package cart

import "errors"

var (
	// ErrInvalidProduct is returned when a product card lacks a name, price or image
	ErrInvalidProduct = errors.New("invalid product card")

	// ErrCorruptSnapshot is returned when the stored cart cannot be decoded
	ErrCorruptSnapshot = errors.New("corrupt cart snapshot")
)
