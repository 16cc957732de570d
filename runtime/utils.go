package mpack

import "math"

// Typed accessors over Next. Each decodes the next item and coerces it
// to the requested shape, setting TypeError when the item has a
// different kind and ValueError when the value does not fit. On any
// failure the returned value is the zero value and the context is
// terminal, so a run of accessors can be checked once at the end.

// NextUnsigned decodes the next item as an unsigned integer.
func (c *UnpackContext) NextUnsigned() uint64 {
	c.Next()
	if c.returnCode != OK {
		return 0
	}
	if c.Item.Type != ItemPositiveInteger {
		c.returnCode = TypeError
		return 0
	}
	return c.Item.Uint
}

// NextSigned decodes the next item as a signed integer. Positive
// values above MaxInt64 set ValueError.
func (c *UnpackContext) NextSigned() int64 {
	c.Next()
	if c.returnCode != OK {
		return 0
	}
	switch c.Item.Type {
	case ItemPositiveInteger:
		if c.Item.Uint > math.MaxInt64 {
			c.returnCode = ValueError
			return 0
		}
		return int64(c.Item.Uint)
	case ItemNegativeInteger:
		return c.Item.Int
	default:
		c.returnCode = TypeError
		return 0
	}
}

// NextBool decodes the next item as a boolean.
func (c *UnpackContext) NextBool() bool {
	c.Next()
	if c.returnCode != OK {
		return false
	}
	if c.Item.Type != ItemBoolean {
		c.returnCode = TypeError
		return false
	}
	return c.Item.Bool
}

// NextFloat64 decodes the next item as a float64, widening the 4-byte
// form and converting integers to the nearest double (integers beyond
// 2^53 may lose precision).
func (c *UnpackContext) NextFloat64() float64 {
	c.Next()
	if c.returnCode != OK {
		return 0
	}
	switch c.Item.Type {
	case ItemDouble:
		return c.Item.Double
	case ItemFloat:
		return float64(c.Item.Float)
	case ItemPositiveInteger:
		return float64(c.Item.Uint)
	case ItemNegativeInteger:
		return float64(c.Item.Int)
	default:
		c.returnCode = TypeError
		return 0
	}
}

// NextStr decodes the next item as a str blob. The view aliases the
// input buffer.
func (c *UnpackContext) NextStr() []byte {
	c.Next()
	if c.returnCode != OK {
		return nil
	}
	if c.Item.Type != ItemStr {
		c.returnCode = TypeError
		return nil
	}
	return c.Item.Blob
}

// NextBin decodes the next item as a bin blob. The view aliases the
// input buffer.
func (c *UnpackContext) NextBin() []byte {
	c.Next()
	if c.returnCode != OK {
		return nil
	}
	if c.Item.Type != ItemBin {
		c.returnCode = TypeError
		return nil
	}
	return c.Item.Blob
}

// NextArraySize decodes the next item as an array header.
func (c *UnpackContext) NextArraySize() uint32 {
	c.Next()
	if c.returnCode != OK {
		return 0
	}
	if c.Item.Type != ItemArray {
		c.returnCode = TypeError
		return 0
	}
	return c.Item.Size
}

// NextMapSize decodes the next item as a map header.
func (c *UnpackContext) NextMapSize() uint32 {
	c.Next()
	if c.returnCode != OK {
		return 0
	}
	if c.Item.Type != ItemMap {
		c.returnCode = TypeError
		return 0
	}
	return c.Item.Size
}

// NextTime decodes the next item as a Timestamp, accepting all three
// wire widths. Next destructures only the ext-8 form; this accessor
// additionally unpacks the fixext-4 and fixext-8 payloads that Next
// reports as blobs, so callers get Sec/Nsec regardless of wire form.
func (c *UnpackContext) NextTime() (sec int64, nsec uint32) {
	c.Next()
	if c.returnCode != OK {
		return 0, 0
	}
	if c.Item.Type != ItemTimestamp {
		c.returnCode = TypeError
		return 0, 0
	}
	if c.Item.Blob == nil {
		return c.Item.Sec, c.Item.Nsec
	}
	sec, nsec, ok := DecodeTimestampBlob(c.Item.Blob)
	if !ok {
		c.returnCode = WrongTimestampLength
		return 0, 0
	}
	c.Item.Sec, c.Item.Nsec = sec, nsec
	c.Item.Blob = nil
	return sec, nsec
}

// DecodeTimestampBlob destructures a Timestamp ext payload of width 4,
// 8 or 12 into seconds and nanoseconds. ok is false for any other
// width.
func DecodeTimestampBlob(b []byte) (sec int64, nsec uint32, ok bool) {
	switch len(b) {
	case 4:
		return int64(be.Uint32(b)), 0, true
	case 8:
		data64 := be.Uint64(b)
		return int64(data64 & 0x3ffffffff), uint32(data64 >> 34), true
	case 12:
		return int64(be.Uint64(b[4:])), be.Uint32(b), true
	default:
		return 0, 0, false
	}
}
