package mpack

// SkipItems advances the cursor past count top-level items without
// decoding their payloads. Container headers grow the pending count
// (a map of size k adds 2k, an array adds k), so nesting costs no
// memory: the walk is a single loop over a counter.
func (c *UnpackContext) SkipItems(count int) {
	if c.returnCode != OK {
		return
	}
	for ; count > 0; count-- {
		lead, ok := c.load1(EndOfInput)
		if !ok {
			return
		}

		switch {
		case lead <= 0x7f || lead >= 0xe0: // fixint
			continue
		case lead < fixarrayPrefix: // fixmap
			count += 2 * int(lead&0x0f)
			continue
		case lead < fixstrPrefix: // fixarray
			count += int(lead & 0x0f)
			continue
		case lead < opNil: // fixstr
			if !c.skipBytes(int(lead & 0x1f)) {
				return
			}
			continue
		}

		switch lead {
		case opNil, opFalse, opTrue:

		case opUint8, opInt8:
			if !c.skipBytes(1) {
				return
			}
		case opUint16, opInt16:
			if !c.skipBytes(2) {
				return
			}
		case opFixext1:
			if !c.skipBytes(2) {
				return
			}
		case opFixext2:
			if !c.skipBytes(3) {
				return
			}
		case opFloat32, opUint32, opInt32:
			if !c.skipBytes(4) {
				return
			}
		case opFixext4:
			if !c.skipBytes(5) {
				return
			}
		case opFloat64, opUint64, opInt64:
			if !c.skipBytes(8) {
				return
			}
		case opFixext8:
			if !c.skipBytes(9) {
				return
			}
		case opFixext16:
			if !c.skipBytes(17) {
				return
			}

		case opStr8, opBin8:
			l, ok := c.load1(BufferUnderflow)
			if !ok || !c.skipBytes(int(l)) {
				return
			}
		case opStr16, opBin16:
			l, ok := c.load2()
			if !ok || !c.skipBytes(int(l)) {
				return
			}
		case opStr32, opBin32:
			l, ok := c.load4()
			if !ok || !c.skipBytes(int(l)) {
				return
			}

		case opExt8:
			l, ok := c.load1(BufferUnderflow)
			if !ok || !c.skipBytes(int(l)+1) {
				return
			}
		case opExt16:
			l, ok := c.load2()
			if !ok || !c.skipBytes(int(l)+1) {
				return
			}
		case opExt32:
			l, ok := c.load4()
			if !ok || !c.skipBytes(int(l)+1) {
				return
			}

		case opArray16:
			n, ok := c.load2()
			if !ok {
				return
			}
			count += int(n)
		case opArray32:
			n, ok := c.load4()
			if !ok {
				return
			}
			count += int(n)
		case opMap16:
			n, ok := c.load2()
			if !ok {
				return
			}
			count += 2 * int(n)
		case opMap32:
			n, ok := c.load4()
			if !ok {
				return
			}
			count += 2 * int(n)

		default: // 0xc1
			c.returnCode = MalformedInput
			return
		}
	}
}

func (c *UnpackContext) skipBytes(n int) bool {
	return c.assertSpace(n, BufferUnderflow) != nil
}
