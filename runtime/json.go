package mpack

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// JSON interop. MessagePack kinds without a native JSON form are
// carried through wrapper objects so that a document survives a
// round trip:
//
//	{"$base64": "..."}            bin payload, standard base64
//	{"$ext": N, "$data": "..."}   ext item, type code and base64 payload
//	{"$timestamp": "RFC3339"}     Timestamp extension
//
// Map keys must be str items; JSON has no other key form.
//
// FromJSONBytes accepts $ext wrappers with user type codes 0..127
// only; an ext item with a reserved (negative) code other than the
// timestamp is rendered by ToJSONBytes but rejected with ValueError on
// the way back.

// ToJSONBytes converts the next MessagePack item into JSON and
// returns the JSON bytes and the remainder of the input.
func ToJSONBytes(b []byte) ([]byte, []byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	c := UnpackContext{buf: b}
	if err := toJSON(bb, &c, 0); err != nil {
		return nil, b, err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, c.Remaining(), nil
}

func toJSON(buf *ByteBuffer, c *UnpackContext, depth int) error {
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
		t := time.Unix(sec, int64(nsec)).UTC()
		buf.WriteString(`{"$timestamp": `)
		writeJSONString(buf, t.Format(time.RFC3339Nano))
		buf.WriteString("}")
		return nil
	case it.Type >= ItemMinReservedExt && it.Type <= ItemMaxUserExt:
		buf.WriteString(`{"$ext": `)
		buf.WriteString(strconv.Itoa(int(it.Type)))
		buf.WriteString(`, "$data": `)
		writeJSONString(buf, base64.StdEncoding.EncodeToString(it.Blob))
		buf.WriteString("}")
		return nil
	}
	switch it.Type {
	case ItemNil:
		buf.WriteString("null")
	case ItemBoolean:
		buf.WriteString(strconv.FormatBool(it.Bool))
	case ItemPositiveInteger:
		buf.WriteString(strconv.FormatUint(it.Uint, 10))
	case ItemNegativeInteger:
		buf.WriteString(strconv.FormatInt(it.Int, 10))
	case ItemFloat:
		return writeJSONFloat(buf, float64(it.Float), 32)
	case ItemDouble:
		return writeJSONFloat(buf, it.Double, 64)
	case ItemStr:
		writeJSONString(buf, string(it.Blob))
	case ItemBin:
		buf.WriteString(`{"$base64": `)
		writeJSONString(buf, base64.StdEncoding.EncodeToString(it.Blob))
		buf.WriteString("}")
	case ItemArray:
		n := it.Size
		buf.WriteString("[")
		for i := uint32(0); i < n; i++ {
			if i > 0 {
				buf.WriteString(",")
			}
			if err := toJSON(buf, c, depth+1); err != nil {
				return err
			}
		}
		buf.WriteString("]")
	case ItemMap:
		n := it.Size
		buf.WriteString("{")
		for i := uint32(0); i < n; i++ {
			if i > 0 {
				buf.WriteString(",")
			}
			c.Next()
			if c.returnCode != OK {
				return c.returnCode.Err()
			}
			if c.Item.Type != ItemStr {
				return ErrTypeError
			}
			writeJSONString(buf, string(c.Item.Blob))
			buf.WriteString(": ")
			if err := toJSON(buf, c, depth+1); err != nil {
				return err
			}
		}
		buf.WriteString("}")
	default:
		return ErrMalformedInput
	}
	return nil
}

func writeJSONFloat(buf *ByteBuffer, f float64, bits int) error {
	// JSON has no encoding for non-finite numbers.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ErrValueError
	}
	buf.WriteString(strconv.FormatFloat(f, 'g', -1, bits))
	return nil
}

func writeJSONString(buf *ByteBuffer, s string) {
	enc, err := json.Marshal(s)
	if err != nil {
		enc = []byte(`""`)
	}
	buf.Write(enc)
}

// FromJSONBytes converts a JSON document into MessagePack bytes,
// applying the wrapper convention above in reverse. Numbers that parse
// as integers are packed as integers; everything else becomes a
// double.
func FromJSONBytes(js []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	c := NewBufferPackContext(bb)
	if err := jsonToPack(c, v); err != nil {
		return nil, err
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	out := make([]byte, len(c.Bytes()))
	copy(out, c.Bytes())
	return out, nil
}

func jsonToPack(c *PackContext, v any) error {
	switch x := v.(type) {
	case nil:
		c.PackNil()
	case bool:
		c.PackBoolean(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			c.PackSigned(i)
			return nil
		}
		if u, err := strconv.ParseUint(string(x), 10, 64); err == nil {
			c.PackUnsigned(u)
			return nil
		}
		f, err := x.Float64()
		if err != nil {
			return err
		}
		c.PackDouble(f)
	case string:
		c.PackStr(x)
	case []any:
		if uint64(len(x)) > math.MaxUint32 {
			return ErrValueError
		}
		c.PackArraySize(uint32(len(x)))
		for _, e := range x {
			if err := jsonToPack(c, e); err != nil {
				return err
			}
		}
	case map[string]any:
		if ok, err := tryJSONWrapper(c, x); ok || err != nil {
			return err
		}
		if uint64(len(x)) > math.MaxUint32 {
			return ErrValueError
		}
		c.PackMapSize(uint32(len(x)))
		for k, vv := range x {
			c.PackStr(k)
			if err := jsonToPack(c, vv); err != nil {
				return err
			}
		}
	default:
		return ErrTypeError
	}
	return nil
}

// tryJSONWrapper recognizes the wrapper objects emitted by ToJSONBytes
// and packs the original item kind.
func tryJSONWrapper(c *PackContext, m map[string]any) (ok bool, err error) {
	if s, found := m["$base64"]; found && len(m) == 1 {
		str, good := s.(string)
		if !good {
			return true, ErrTypeError
		}
		raw, derr := base64.StdEncoding.DecodeString(str)
		if derr != nil {
			return true, derr
		}
		c.PackBin(raw)
		return true, nil
	}
	if s, found := m["$timestamp"]; found && len(m) == 1 {
		str, good := s.(string)
		if !good {
			return true, ErrTypeError
		}
		t, perr := time.Parse(time.RFC3339Nano, str)
		if perr != nil {
			return true, perr
		}
		c.PackTime(t.Unix(), uint32(t.Nanosecond()))
		return true, nil
	}
	if tv, found := m["$ext"]; found && len(m) == 2 {
		dv, dfound := m["$data"]
		if !dfound {
			return false, nil
		}
		num, good := tv.(json.Number)
		if !good {
			return true, ErrTypeError
		}
		code, nerr := num.Int64()
		if nerr != nil || code < int64(ItemMinUserExt) || code > int64(ItemMaxUserExt) {
			return true, ErrValueError
		}
		str, good := dv.(string)
		if !good {
			return true, ErrTypeError
		}
		raw, derr := base64.StdEncoding.DecodeString(str)
		if derr != nil {
			return true, derr
		}
		c.PackExt(int8(code), raw)
		return true, nil
	}
	return false, nil
}
