package mpack

// ValidateItem checks that the next MessagePack item in b is
// well-formed and complete, and returns the remaining bytes after it.
// Validation rides the skip engine, so arbitrarily nested containers
// cost O(1) memory.
func ValidateItem(b []byte) (rest []byte, err error) {
	c := UnpackContext{buf: b}
	c.SkipItems(1)
	if c.returnCode != OK {
		return b, c.returnCode.Err()
	}
	return c.Remaining(), nil
}

// ValidateDocument checks that b is a concatenation of well-formed
// items with no trailing garbage.
func ValidateDocument(b []byte) error {
	c := UnpackContext{buf: b}
	for c.pos < len(c.buf) {
		c.SkipItems(1)
		if c.returnCode != OK {
			return c.returnCode.Err()
		}
	}
	return nil
}
