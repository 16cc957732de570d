package mpack

import (
	"encoding/binary"
	"math"
)

var be = binary.BigEndian

// PackContext writes MessagePack items at a cursor into a caller-owned
// byte region. Operations pick the shortest legal encoding for each
// value and are silent no-ops once the context holds a non-zero
// ReturnCode.
//
// A context must not be used from more than one goroutine at a time.
type PackContext struct {
	buf []byte
	pos int

	compatible bool
	returnCode ReturnCode

	// ErrNo is reserved for handlers to stash auxiliary diagnostics
	// (an OS errno, an application error tag) alongside the coded
	// failure. The codec itself never touches it.
	ErrNo int

	handleOverflow PackOverflowHandler
	handleFlush    PackFlushHandler
}

// NewPackContext initializes a context over buf. overflow may be nil,
// in which case running out of room sets BufferOverflow.
func NewPackContext(buf []byte, overflow PackOverflowHandler) *PackContext {
	return &PackContext{
		buf:            buf,
		returnCode:     testByteOrder(),
		handleOverflow: overflow,
	}
}

// SetCompatibility switches the context to the pre-2013 MessagePack
// profile: str8 is suppressed (str16 from length 32 up), bin is
// emitted as str, and ext/time become IllegalCall.
func (c *PackContext) SetCompatibility(beCompatible bool) { c.compatible = beCompatible }

// SetFlushHandler installs the handler invoked by Flush.
func (c *PackContext) SetFlushHandler(flush PackFlushHandler) { c.handleFlush = flush }

// ReturnCode reports the context's sticky status.
func (c *PackContext) ReturnCode() ReturnCode { return c.returnCode }

// Err returns the sticky status as a typed error, nil while OK.
func (c *PackContext) Err() error { return c.returnCode.Err() }

// Bytes returns the written region [start,current). It aliases the
// context's buffer.
func (c *PackContext) Bytes() []byte { return c.buf[:c.pos] }

// Buffer returns the whole region [start,end).
func (c *PackContext) Buffer() []byte { return c.buf }

// Offset returns the cursor position relative to start.
func (c *PackContext) Offset() int { return c.pos }

// SetBuffer remaps the context onto buf with the cursor at pos. It is
// intended for overflow and flush handlers; already-written bytes that
// should survive must have been carried into buf by the handler.
func (c *PackContext) SetBuffer(buf []byte, pos int) {
	c.buf = buf
	c.pos = pos
}

// Fail forces the context into the given terminal state. Handlers use
// it indirectly by returning a code; it is exported for callers that
// implement batched cancellation (Stopped) on top of the context.
func (c *PackContext) Fail(rc ReturnCode) {
	if c.returnCode == OK && rc != OK {
		c.returnCode = rc
	}
}

// reserve makes n contiguous bytes available at the cursor and
// advances past them, invoking the overflow handler on shortfall.
func (c *PackContext) reserve(n int) []byte {
	if c.pos+n > len(c.buf) {
		if c.handleOverflow == nil {
			c.returnCode = BufferOverflow
			return nil
		}
		if rc := c.handleOverflow(c, n); rc != OK {
			c.returnCode = rc
			return nil
		}
		if c.pos+n > len(c.buf) {
			// Handler said OK but did not provide the room.
			c.returnCode = ErrorInHandler
			return nil
		}
	}
	p := c.buf[c.pos : c.pos+n]
	c.pos += n
	return p
}

func (c *PackContext) put0(op byte) {
	if p := c.reserve(1); p != nil {
		p[0] = op
	}
}

func (c *PackContext) put1(op byte, v uint8) {
	if p := c.reserve(2); p != nil {
		p[0] = op
		p[1] = v
	}
}

func (c *PackContext) put2(op byte, v uint16) {
	if p := c.reserve(3); p != nil {
		p[0] = op
		be.PutUint16(p[1:], v)
	}
}

func (c *PackContext) put4(op byte, v uint32) {
	if p := c.reserve(5); p != nil {
		p[0] = op
		be.PutUint32(p[1:], v)
	}
}

func (c *PackContext) put8(op byte, v uint64) {
	if p := c.reserve(9); p != nil {
		p[0] = op
		be.PutUint64(p[1:], v)
	}
}

// PackNil writes nil.
func (c *PackContext) PackNil() {
	if c.returnCode != OK {
		return
	}
	c.put0(opNil)
}

// PackTrue writes true.
func (c *PackContext) PackTrue() {
	if c.returnCode != OK {
		return
	}
	c.put0(opTrue)
}

// PackFalse writes false.
func (c *PackContext) PackFalse() {
	if c.returnCode != OK {
		return
	}
	c.put0(opFalse)
}

// PackBoolean writes b.
func (c *PackContext) PackBoolean(b bool) {
	if c.returnCode != OK {
		return
	}
	if b {
		c.put0(opTrue)
	} else {
		c.put0(opFalse)
	}
}

// PackUnsigned writes u in the shortest of positive fixint, uint8,
// uint16, uint32 or uint64 form.
func (c *PackContext) PackUnsigned(u uint64) {
	if c.returnCode != OK {
		return
	}
	switch {
	case u < 128:
		c.put0(byte(u))
	case u <= math.MaxUint8:
		c.put1(opUint8, uint8(u))
	case u <= math.MaxUint16:
		c.put2(opUint16, uint16(u))
	case u <= math.MaxUint32:
		c.put4(opUint32, uint32(u))
	default:
		c.put8(opUint64, u)
	}
}

// PackSigned writes i in the shortest legal form. Non-negative values
// use the unsigned family, so a reader always sees them as positive
// integers.
func (c *PackContext) PackSigned(i int64) {
	if c.returnCode != OK {
		return
	}
	if i > 127 {
		switch {
		case i <= math.MaxUint8:
			c.put1(opUint8, uint8(i))
		case i <= math.MaxUint16:
			c.put2(opUint16, uint16(i))
		case i <= math.MaxUint32:
			c.put4(opUint32, uint32(i))
		default:
			c.put8(opUint64, uint64(i))
		}
		return
	}
	switch {
	case i >= fixintMin:
		c.put0(byte(i))
	case i >= math.MinInt8:
		c.put1(opInt8, uint8(i))
	case i >= math.MinInt16:
		c.put2(opInt16, uint16(i))
	case i >= math.MinInt32:
		c.put4(opInt32, uint32(i))
	default:
		c.put8(opInt64, uint64(i))
	}
}

// PackFloat writes f as the 5-byte float32 form.
func (c *PackContext) PackFloat(f float32) {
	if c.returnCode != OK {
		return
	}
	c.put4(opFloat32, math.Float32bits(f))
}

// PackDouble writes d as the 9-byte float64 form.
func (c *PackContext) PackDouble(d float64) {
	if c.returnCode != OK {
		return
	}
	c.put8(opFloat64, math.Float64bits(d))
}

// PackArraySize writes an array header. The caller must follow it with
// exactly n items; the context does not track nesting.
func (c *PackContext) PackArraySize(n uint32) {
	if c.returnCode != OK {
		return
	}
	switch {
	case n <= fixContainerMax:
		c.put0(fixarrayPrefix | byte(n))
	case n <= math.MaxUint16:
		c.put2(opArray16, uint16(n))
	default:
		c.put4(opArray32, n)
	}
}

// PackMapSize writes a map header. The caller must follow it with
// exactly n key/value item pairs.
func (c *PackContext) PackMapSize(n uint32) {
	if c.returnCode != OK {
		return
	}
	switch {
	case n <= fixContainerMax:
		c.put0(fixmapPrefix | byte(n))
	case n <= math.MaxUint16:
		c.put2(opMap16, uint16(n))
	default:
		c.put4(opMap32, n)
	}
}

// PackStr writes s as a str item.
func (c *PackContext) PackStr(s string) {
	if c.returnCode != OK {
		return
	}
	if p := c.strHeader(len(s)); p != nil {
		copy(p, s)
	}
}

// PackStrBytes writes v as a str item without a string conversion.
func (c *PackContext) PackStrBytes(v []byte) {
	if c.returnCode != OK {
		return
	}
	if p := c.strHeader(len(v)); p != nil {
		copy(p, v)
	}
}

// strHeader emits the str header for a payload of length l and
// returns the reserved payload region.
func (c *PackContext) strHeader(l int) []byte {
	switch {
	case l <= fixstrMax:
		if p := c.reserve(l + 1); p != nil {
			p[0] = fixstrPrefix + byte(l)
			return p[1:]
		}
	case l <= math.MaxUint8 && !c.compatible:
		if p := c.reserve(l + 2); p != nil {
			p[0] = opStr8
			p[1] = byte(l)
			return p[2:]
		}
	case l <= math.MaxUint16:
		if p := c.reserve(l + 3); p != nil {
			p[0] = opStr16
			be.PutUint16(p[1:], uint16(l))
			return p[3:]
		}
	case uint64(l) <= math.MaxUint32:
		if p := c.reserve(l + 5); p != nil {
			p[0] = opStr32
			be.PutUint32(p[1:], uint32(l))
			return p[5:]
		}
	default:
		c.returnCode = ValueError
	}
	return nil
}

// PackBin writes v as a bin item. In compatibility mode bin does not
// exist on the wire and v is emitted as str instead.
func (c *PackContext) PackBin(v []byte) {
	if c.returnCode != OK {
		return
	}
	if c.compatible {
		c.PackStrBytes(v)
		return
	}
	l := len(v)
	var p []byte
	switch {
	case l <= math.MaxUint8:
		if p = c.reserve(l + 2); p != nil {
			p[0] = opBin8
			p[1] = byte(l)
			p = p[2:]
		}
	case l <= math.MaxUint16:
		if p = c.reserve(l + 3); p != nil {
			p[0] = opBin16
			be.PutUint16(p[1:], uint16(l))
			p = p[3:]
		}
	case uint64(l) <= math.MaxUint32:
		if p = c.reserve(l + 5); p != nil {
			p[0] = opBin32
			be.PutUint32(p[1:], uint32(l))
			p = p[5:]
		}
	default:
		c.returnCode = ValueError
		return
	}
	if p != nil {
		copy(p, v)
	}
}

// PackExt writes v as an ext item with the given type code, using the
// fixext forms when the length matches one exactly. Ext items do not
// exist in compatibility mode; packing one sets IllegalCall.
func (c *PackContext) PackExt(typ int8, v []byte) {
	if c.returnCode != OK {
		return
	}
	if c.compatible {
		c.returnCode = IllegalCall
		return
	}
	l := len(v)
	var p []byte
	switch l {
	case 1:
		p = c.reserve(3)
		if p != nil {
			p[0] = opFixext1
		}
	case 2:
		p = c.reserve(4)
		if p != nil {
			p[0] = opFixext2
		}
	case 4:
		p = c.reserve(6)
		if p != nil {
			p[0] = opFixext4
		}
	case 8:
		p = c.reserve(10)
		if p != nil {
			p[0] = opFixext8
		}
	case 16:
		p = c.reserve(18)
		if p != nil {
			p[0] = opFixext16
		}
	default:
		switch {
		case l <= math.MaxUint8:
			if p = c.reserve(l + 3); p != nil {
				p[0] = opExt8
				p[1] = byte(l)
				p = p[1:]
			}
		case l <= math.MaxUint16:
			if p = c.reserve(l + 4); p != nil {
				p[0] = opExt16
				be.PutUint16(p[1:], uint16(l))
				p = p[2:]
			}
		case uint64(l) <= math.MaxUint32:
			if p = c.reserve(l + 6); p != nil {
				p[0] = opExt32
				be.PutUint32(p[1:], uint32(l))
				p = p[4:]
			}
		default:
			c.returnCode = ValueError
			return
		}
	}
	if p != nil {
		p[1] = byte(typ)
		copy(p[2:], v)
	}
}

// PackTime writes a Timestamp extension item, choosing the 32, 64 or
// 96-bit form. nsec must be below one billion. Timestamps do not exist
// in compatibility mode; packing one sets IllegalCall.
func (c *PackContext) PackTime(sec int64, nsec uint32) {
	if c.returnCode != OK {
		return
	}
	if c.compatible {
		c.returnCode = IllegalCall
		return
	}
	if nsec > maxNsec {
		c.returnCode = ValueError
		return
	}
	if uint64(sec)&tsSecHighBits != 0 {
		// Timestamp 96
		if p := c.reserve(15); p != nil {
			p[0] = opExt8
			p[1] = tsExt8Length
			p[2] = extTimestampByte
			be.PutUint32(p[3:], nsec)
			be.PutUint64(p[7:], uint64(sec))
		}
		return
	}
	data64 := uint64(nsec)<<34 | uint64(sec)
	if data64&tsData64HighBits != 0 {
		// Timestamp 64
		if p := c.reserve(10); p != nil {
			p[0] = opFixext8
			p[1] = extTimestampByte
			be.PutUint64(p[2:], data64)
		}
		return
	}
	// Timestamp 32
	if p := c.reserve(6); p != nil {
		p[0] = opFixext4
		p[1] = extTimestampByte
		be.PutUint32(p[2:], uint32(data64))
	}
}

// Insert copies pre-encoded bytes verbatim at the cursor. The contents
// are not checked; the caller is responsible for supplying a whole
// number of valid items.
func (c *PackContext) Insert(v []byte) {
	if c.returnCode != OK {
		return
	}
	if p := c.reserve(len(v)); p != nil {
		copy(p, v)
	}
}

// Flush hands [start,current) to the flush handler. Without a handler
// installed it sets IllegalCall.
func (c *PackContext) Flush() {
	if c.returnCode != OK {
		return
	}
	if c.handleFlush == nil {
		c.returnCode = IllegalCall
		return
	}
	if rc := c.handleFlush(c); rc != OK {
		c.returnCode = rc
	}
}
