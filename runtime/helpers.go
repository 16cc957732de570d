package mpack

// NextType classifies the next item in b without consuming anything.
// It is a stateless convenience over LookAhead: ext subtypes
// (timestamps included) are resolved when enough bytes are present.
// NotAnItem is returned for empty input, for the reserved lead byte
// 0xc1, and for an ext item whose type byte is missing; other
// truncated items are still classified from their lead byte.
func NextType(b []byte) ItemType {
	c := UnpackContext{buf: b}
	return c.LookAhead()
}

// IsNil reports whether the next item in b is nil.
func IsNil(b []byte) bool {
	return len(b) > 0 && b[0] == opNil
}
