package mpack

import "math"

// UnpackContext scans MessagePack items at a cursor over a caller-owned
// byte region. Next fills the Item slot and advances past the entire
// encoded item; container items advance past the header only and the
// caller drives the children.
//
// A context must not be used from more than one goroutine at a time.
type UnpackContext struct {
	// Item holds the most recently decoded value. Blob payloads alias
	// the input buffer and are invalidated by the next underflow
	// refill.
	Item Item

	buf []byte
	pos int

	returnCode ReturnCode

	// ErrNo is reserved for handlers, as on PackContext.
	ErrNo int

	handleUnderflow UnpackUnderflowHandler
}

// NewUnpackContext initializes a context over buf. underflow may be
// nil, in which case exhausting the buffer sets EndOfInput or
// BufferUnderflow.
func NewUnpackContext(buf []byte, underflow UnpackUnderflowHandler) *UnpackContext {
	return &UnpackContext{
		buf:             buf,
		returnCode:      testByteOrder(),
		handleUnderflow: underflow,
	}
}

// ReturnCode reports the context's sticky status.
func (c *UnpackContext) ReturnCode() ReturnCode { return c.returnCode }

// Err returns the sticky status as a typed error, nil while OK.
func (c *UnpackContext) Err() error { return c.returnCode.Err() }

// Buffer returns the region [start,end).
func (c *UnpackContext) Buffer() []byte { return c.buf }

// Offset returns the cursor position relative to start.
func (c *UnpackContext) Offset() int { return c.pos }

// Remaining returns the unread region [current,end). It aliases the
// context's buffer.
func (c *UnpackContext) Remaining() []byte { return c.buf[c.pos:] }

// SetBuffer remaps the context onto buf with the cursor at pos. It is
// intended for underflow handlers; any unread tail the handler wants
// to keep must have been carried into buf.
func (c *UnpackContext) SetBuffer(buf []byte, pos int) {
	c.buf = buf
	c.pos = pos
}

// Fail forces the context into the given terminal state, as on
// PackContext.
func (c *UnpackContext) Fail(rc ReturnCode) {
	if c.returnCode == OK && rc != OK {
		c.returnCode = rc
	}
}

// assertSpace makes n contiguous bytes readable at the cursor and
// advances past them. short is the code stored when no more input can
// be had: EndOfInput for the first byte of an item, BufferUnderflow
// inside one. A handler returning EndOfInput is translated the same
// way; other non-zero handler codes are stored as-is.
func (c *UnpackContext) assertSpace(n int, short ReturnCode) []byte {
	if c.pos+n > len(c.buf) {
		if c.handleUnderflow == nil {
			c.returnCode = short
			return nil
		}
		if rc := c.handleUnderflow(c, n); rc != OK {
			if rc == EndOfInput {
				c.returnCode = short
			} else {
				c.returnCode = rc
			}
			return nil
		}
		if c.pos+n > len(c.buf) {
			c.returnCode = ErrorInHandler
			return nil
		}
	}
	p := c.buf[c.pos : c.pos+n]
	c.pos += n
	return p
}

func (c *UnpackContext) load1(short ReturnCode) (uint8, bool) {
	p := c.assertSpace(1, short)
	if p == nil {
		return 0, false
	}
	return p[0], true
}

func (c *UnpackContext) load2() (uint16, bool) {
	p := c.assertSpace(2, BufferUnderflow)
	if p == nil {
		return 0, false
	}
	return be.Uint16(p), true
}

func (c *UnpackContext) load4() (uint32, bool) {
	p := c.assertSpace(4, BufferUnderflow)
	if p == nil {
		return 0, false
	}
	return be.Uint32(p), true
}

func (c *UnpackContext) load8() (uint64, bool) {
	p := c.assertSpace(8, BufferUnderflow)
	if p == nil {
		return 0, false
	}
	return be.Uint64(p), true
}

// blob records a payload view of the given length in the item slot and
// advances past it.
func (c *UnpackContext) blob(length uint32) {
	p := c.assertSpace(int(length), BufferUnderflow)
	if p == nil {
		return
	}
	c.Item.Blob = p
}

// positive and negative tag the item slot. positive sets both integer
// fields, so a non-negative value reads the same from Uint and Int;
// negative sets Int only.
func (c *UnpackContext) positive(u uint64) {
	c.Item.Type = ItemPositiveInteger
	c.Item.Uint = u
	c.Item.Int = int64(u)
}

func (c *UnpackContext) negative(i int64) {
	c.Item.Type = ItemNegativeInteger
	c.Item.Int = i
}

// signed applies the sign normalization of the int family: values
// decoded from int8/16/32/64 opcodes that turn out non-negative are
// re-tagged as positive integers.
func (c *UnpackContext) signed(i int64) {
	if i >= 0 {
		c.positive(uint64(i))
	} else {
		c.negative(i)
	}
}

// Next decodes one item into the Item slot and advances the cursor
// past it. Containers report their header only. A missing first byte
// is EndOfInput; a truncation anywhere later in the item is
// BufferUnderflow.
func (c *UnpackContext) Next() {
	if c.returnCode != OK {
		return
	}
	lead, ok := c.load1(EndOfInput)
	if !ok {
		return
	}

	switch {
	case lead <= 0x7f: // positive fixint
		c.positive(uint64(lead))
		return
	case lead >= 0xe0: // negative fixint
		c.negative(int64(int8(lead)))
		return
	case lead < fixarrayPrefix: // fixmap
		c.Item.Type = ItemMap
		c.Item.Size = uint32(lead & 0x0f)
		return
	case lead < fixstrPrefix: // fixarray
		c.Item.Type = ItemArray
		c.Item.Size = uint32(lead & 0x0f)
		return
	case lead < opNil: // fixstr
		c.Item.Type = ItemStr
		c.blob(uint32(lead & 0x1f))
		return
	}

	switch lead {
	case opNil:
		c.Item.Type = ItemNil
	case opFalse:
		c.Item.Type = ItemBoolean
		c.Item.Bool = false
	case opTrue:
		c.Item.Type = ItemBoolean
		c.Item.Bool = true

	case opBin8:
		if l, ok := c.load1(BufferUnderflow); ok {
			c.Item.Type = ItemBin
			c.blob(uint32(l))
		}
	case opBin16:
		if l, ok := c.load2(); ok {
			c.Item.Type = ItemBin
			c.blob(uint32(l))
		}
	case opBin32:
		if l, ok := c.load4(); ok {
			c.Item.Type = ItemBin
			c.blob(l)
		}

	case opExt8:
		l, ok := c.load1(BufferUnderflow)
		if !ok {
			return
		}
		t, ok := c.load1(BufferUnderflow)
		if !ok {
			return
		}
		c.Item.Type = ItemType(int8(t))
		if c.Item.Type == ItemTimestamp {
			if l != tsExt8Length {
				c.returnCode = WrongTimestampLength
				return
			}
			nsec, ok := c.load4()
			if !ok {
				return
			}
			sec, ok := c.load8()
			if !ok {
				return
			}
			c.Item.Nsec = nsec
			c.Item.Sec = int64(sec)
			c.Item.Blob = nil
			return
		}
		c.blob(uint32(l))
	case opExt16:
		l, ok := c.load2()
		if !ok {
			return
		}
		t, ok := c.load1(BufferUnderflow)
		if !ok {
			return
		}
		c.Item.Type = ItemType(int8(t))
		c.blob(uint32(l))
	case opExt32:
		l, ok := c.load4()
		if !ok {
			return
		}
		t, ok := c.load1(BufferUnderflow)
		if !ok {
			return
		}
		c.Item.Type = ItemType(int8(t))
		c.blob(l)

	case opFloat32:
		if v, ok := c.load4(); ok {
			c.Item.Type = ItemFloat
			c.Item.Float = math.Float32frombits(v)
		}
	case opFloat64:
		if v, ok := c.load8(); ok {
			c.Item.Type = ItemDouble
			c.Item.Double = math.Float64frombits(v)
		}

	case opUint8:
		if v, ok := c.load1(BufferUnderflow); ok {
			c.positive(uint64(v))
		}
	case opUint16:
		if v, ok := c.load2(); ok {
			c.positive(uint64(v))
		}
	case opUint32:
		if v, ok := c.load4(); ok {
			c.positive(uint64(v))
		}
	case opUint64:
		if v, ok := c.load8(); ok {
			c.positive(v)
		}

	case opInt8:
		if v, ok := c.load1(BufferUnderflow); ok {
			c.signed(int64(int8(v)))
		}
	case opInt16:
		if v, ok := c.load2(); ok {
			c.signed(int64(int16(v)))
		}
	case opInt32:
		if v, ok := c.load4(); ok {
			c.signed(int64(int32(v)))
		}
	case opInt64:
		if v, ok := c.load8(); ok {
			c.signed(int64(v))
		}

	case opFixext1:
		c.fixext(1)
	case opFixext2:
		c.fixext(2)
	case opFixext4:
		c.fixext(4)
	case opFixext8:
		c.fixext(8)
	case opFixext16:
		c.fixext(16)

	case opStr8:
		if l, ok := c.load1(BufferUnderflow); ok {
			c.Item.Type = ItemStr
			c.blob(uint32(l))
		}
	case opStr16:
		if l, ok := c.load2(); ok {
			c.Item.Type = ItemStr
			c.blob(uint32(l))
		}
	case opStr32:
		if l, ok := c.load4(); ok {
			c.Item.Type = ItemStr
			c.blob(l)
		}

	case opArray16:
		if n, ok := c.load2(); ok {
			c.Item.Type = ItemArray
			c.Item.Size = uint32(n)
		}
	case opArray32:
		if n, ok := c.load4(); ok {
			c.Item.Type = ItemArray
			c.Item.Size = n
		}
	case opMap16:
		if n, ok := c.load2(); ok {
			c.Item.Type = ItemMap
			c.Item.Size = uint32(n)
		}
	case opMap32:
		if n, ok := c.load4(); ok {
			c.Item.Type = ItemMap
			c.Item.Size = n
		}

	default: // 0xc1
		c.returnCode = MalformedInput
	}
}

// fixext decodes a fixext item of the given payload length. The type
// code becomes the item tag; timestamps arriving in fixext form keep
// their payload as an undecoded blob (only the ext-8 wire form is
// destructured into Sec/Nsec).
func (c *UnpackContext) fixext(length uint32) {
	t, ok := c.load1(BufferUnderflow)
	if !ok {
		return
	}
	c.Item.Type = ItemType(int8(t))
	c.blob(length)
}

// LookAhead classifies the next item without consuming input. For ext
// items it peeks past the length bytes to classify the precise
// subtype, timestamps included. The int8..int64 opcodes are classified
// as ItemNegativeInteger from the opcode alone, even where Next would
// re-tag a non-negative value as ItemPositiveInteger. On any
// shortfall it returns NotAnItem after setting the return code
// (EndOfInput for the lead byte, BufferUnderflow past it); for the
// reserved lead byte 0xc1 it returns NotAnItem without touching the
// code.
func (c *UnpackContext) LookAhead() ItemType {
	if c.returnCode != OK {
		return NotAnItem
	}
	p := c.assertSpace(1, EndOfInput)
	if p == nil {
		return NotAnItem
	}
	c.pos-- // step back to the lead byte
	lead := p[0]

	switch {
	case lead <= 0x7f:
		return ItemPositiveInteger
	case lead >= 0xe0:
		return ItemNegativeInteger
	case lead < fixarrayPrefix:
		return ItemMap
	case lead < fixstrPrefix:
		return ItemArray
	case lead < opNil:
		return ItemStr
	}

	switch lead {
	case opNil:
		return ItemNil
	case opFalse, opTrue:
		return ItemBoolean
	case opBin8, opBin16, opBin32:
		return ItemBin
	case opExt8:
		return c.peekExtType(3)
	case opExt16:
		return c.peekExtType(4)
	case opExt32:
		return c.peekExtType(6)
	case opFloat32:
		return ItemFloat
	case opFloat64:
		return ItemDouble
	case opUint8, opUint16, opUint32, opUint64:
		return ItemPositiveInteger
	case opInt8, opInt16, opInt32, opInt64:
		return ItemNegativeInteger
	case opFixext1, opFixext2, opFixext4, opFixext8, opFixext16:
		return c.peekExtType(2)
	case opStr8, opStr16, opStr32:
		return ItemStr
	case opArray16, opArray32:
		return ItemArray
	case opMap16, opMap32:
		return ItemMap
	default: // 0xc1
		return NotAnItem
	}
}

// peekExtType reads the signed type code sitting n bytes into the
// item (past the lead and length bytes) and restores the cursor.
func (c *UnpackContext) peekExtType(n int) ItemType {
	p := c.assertSpace(n, BufferUnderflow)
	if p == nil {
		return NotAnItem
	}
	c.pos -= n
	return ItemType(int8(p[n-1]))
}
