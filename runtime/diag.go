package mpack

import (
	"encoding/hex"
	"strconv"
)

// DiagBytes renders the next MessagePack item in a diagnostic notation
// and returns the remaining bytes. Containers are rendered
// recursively:
//
//	nil  true  -12  3.5  "text"  h'6162'  [1, 2]  {"k": 1}
//	ext(5, h'00ff')  timestamp(1514764800, 500000000)
func DiagBytes(b []byte) (string, []byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	c := UnpackContext{buf: b}
	if err := diagOne(bb, &c, 0); err != nil {
		return "", b, err
	}
	return string(bb.Bytes()), c.Remaining(), nil
}

func diagOne(buf *ByteBuffer, c *UnpackContext, depth int) error {
	if depth > recursionLimit {
		return ErrMalformedInput
	}
	c.Next()
	if c.returnCode != OK {
		return c.returnCode.Err()
	}
	it := &c.Item
	switch {
	case it.Type == ItemTimestamp:
		sec, nsec := it.Sec, it.Nsec
		if it.Blob != nil {
			var ok bool
			if sec, nsec, ok = DecodeTimestampBlob(it.Blob); !ok {
				return ErrWrongTimestampLength
			}
		}
		buf.WriteString("timestamp(")
		buf.WriteString(strconv.FormatInt(sec, 10))
		buf.WriteString(", ")
		buf.WriteString(strconv.FormatUint(uint64(nsec), 10))
		buf.WriteString(")")
		return nil
	case it.Type >= ItemMinReservedExt && it.Type <= ItemMaxUserExt:
		buf.WriteString("ext(")
		buf.WriteString(strconv.Itoa(int(it.Type)))
		buf.WriteString(", ")
		writeHexBlob(buf, it.Blob)
		buf.WriteString(")")
		return nil
	}
	switch it.Type {
	case ItemNil:
		buf.WriteString("nil")
	case ItemBoolean:
		buf.WriteString(strconv.FormatBool(it.Bool))
	case ItemPositiveInteger:
		buf.WriteString(strconv.FormatUint(it.Uint, 10))
	case ItemNegativeInteger:
		buf.WriteString(strconv.FormatInt(it.Int, 10))
	case ItemFloat:
		buf.WriteString(strconv.FormatFloat(float64(it.Float), 'g', -1, 32))
	case ItemDouble:
		buf.WriteString(strconv.FormatFloat(it.Double, 'g', -1, 64))
	case ItemStr:
		buf.WriteString(strconv.Quote(string(it.Blob)))
	case ItemBin:
		writeHexBlob(buf, it.Blob)
	case ItemArray:
		n := it.Size
		buf.WriteString("[")
		for i := uint32(0); i < n; i++ {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := diagOne(buf, c, depth+1); err != nil {
				return err
			}
		}
		buf.WriteString("]")
	case ItemMap:
		n := it.Size
		buf.WriteString("{")
		for i := uint32(0); i < n; i++ {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := diagOne(buf, c, depth+1); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := diagOne(buf, c, depth+1); err != nil {
				return err
			}
		}
		buf.WriteString("}")
	default:
		return ErrMalformedInput
	}
	return nil
}

func writeHexBlob(buf *ByteBuffer, b []byte) {
	buf.WriteString("h'")
	d := buf.Extend(hex.EncodedLen(len(b)))
	hex.Encode(d, b)
	buf.WriteString("'")
}
