package mpack

import (
	"bytes"
	"math"
	"testing"
	"time"

	msgp "github.com/tinylib/msgp/msgp"
	msgpack "github.com/vmihailenco/msgpack/v5"
)

// The wire bytes this codec emits must be exactly what established
// MessagePack implementations emit for the same values, and each side
// must decode the other's output. tinylib/msgp covers the byte-level
// comparisons; vmihailenco/msgpack covers whole-value decoding and the
// timestamp extension.

func TestWireAgreementWithMsgp(t *testing.T) {
	for _, u := range []uint64{0, 1, 127, 128, 255, 256, 65535, 65536,
		math.MaxUint32, math.MaxUint32 + 1, math.MaxUint64} {
		ours := packInto(t, func(c *PackContext) { c.PackUnsigned(u) })
		theirs := msgp.AppendUint64(nil, u)
		if !bytes.Equal(ours, theirs) {
			t.Errorf("uint %d: ours %x, msgp %x", u, ours, theirs)
		}
	}

	for _, i := range []int64{-1, -32, -33, -128, -129, -32768, -32769,
		math.MinInt32, math.MinInt32 - 1, math.MinInt64} {
		ours := packInto(t, func(c *PackContext) { c.PackSigned(i) })
		theirs := msgp.AppendInt64(nil, i)
		if !bytes.Equal(ours, theirs) {
			t.Errorf("int %d: ours %x, msgp %x", i, ours, theirs)
		}
	}

	for _, n := range []int{0, 1, 31, 32, 255, 256, 65535, 65536} {
		s := string(bytes.Repeat([]byte{'m'}, n))
		ours := packInto(t, func(c *PackContext) { c.PackStr(s) })
		theirs := msgp.AppendString(nil, s)
		if !bytes.Equal(ours, theirs) {
			t.Errorf("str len %d: headers differ (ours %x, msgp %x)", n, ours[:4], theirs[:4])
		}

		v := bytes.Repeat([]byte{0x01}, n)
		ours = packInto(t, func(c *PackContext) { c.PackBin(v) })
		theirs = msgp.AppendBytes(nil, v)
		if !bytes.Equal(ours, theirs) {
			t.Errorf("bin len %d: headers differ", n)
		}
	}

	ours := packInto(t, func(c *PackContext) {
		c.PackNil()
		c.PackBoolean(true)
		c.PackBoolean(false)
		c.PackDouble(6.626e-34)
		c.PackFloat(2.5)
		c.PackArraySize(20)
		c.PackMapSize(70000)
	})
	theirs := msgp.AppendNil(nil)
	theirs = msgp.AppendBool(theirs, true)
	theirs = msgp.AppendBool(theirs, false)
	theirs = msgp.AppendFloat64(theirs, 6.626e-34)
	theirs = msgp.AppendFloat32(theirs, 2.5)
	theirs = msgp.AppendArrayHeader(theirs, 20)
	theirs = msgp.AppendMapHeader(theirs, 70000)
	if !bytes.Equal(ours, theirs) {
		t.Fatalf("mixed scalars differ:\n ours %x\n msgp %x", ours, theirs)
	}
}

// TestMsgpDecodesOurStream reads a document we packed using msgp's
// readers.
func TestMsgpDecodesOurStream(t *testing.T) {
	enc := packInto(t, func(c *PackContext) {
		c.PackMapSize(2)
		c.PackStr("count")
		c.PackSigned(1234)
		c.PackStr("data")
		c.PackBin([]byte{1, 2, 3, 4})
	})

	sz, rest, err := msgp.ReadMapHeaderBytes(enc)
	if err != nil || sz != 2 {
		t.Fatalf("map header: %d %v", sz, err)
	}
	k, rest, err := msgp.ReadStringBytes(rest)
	if err != nil || k != "count" {
		t.Fatalf("key: %q %v", k, err)
	}
	n, rest, err := msgp.ReadInt64Bytes(rest)
	if err != nil || n != 1234 {
		t.Fatalf("value: %d %v", n, err)
	}
	k, rest, err = msgp.ReadStringBytes(rest)
	if err != nil || k != "data" {
		t.Fatalf("key2: %q %v", k, err)
	}
	raw, rest, err := msgp.ReadBytesBytes(rest, nil)
	if err != nil || !bytes.Equal(raw, []byte{1, 2, 3, 4}) {
		t.Fatalf("bin: %x %v", raw, err)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing %x", rest)
	}
}

// TestWeDecodeMsgpStream unpacks a document msgp appended.
func TestWeDecodeMsgpStream(t *testing.T) {
	b := msgp.AppendArrayHeader(nil, 3)
	b = msgp.AppendInt64(b, -5)
	b = msgp.AppendString(b, "msgp")
	b = msgp.AppendFloat64(b, 0.25)

	c := NewUnpackContext(b, nil)
	if n := c.NextArraySize(); n != 3 {
		t.Fatalf("array %d", n)
	}
	if v := c.NextSigned(); v != -5 {
		t.Fatalf("int %d", v)
	}
	if s := c.NextStr(); string(s) != "msgp" {
		t.Fatalf("str %q", s)
	}
	if f := c.NextFloat64(); f != 0.25 {
		t.Fatalf("float %v", f)
	}
	if c.ReturnCode() != OK {
		t.Fatalf("rc %v", c.ReturnCode())
	}
}

// TestTimestampAgreementWithVmihailenco: both directions, all three
// wire widths.
func TestTimestampAgreementWithVmihailenco(t *testing.T) {
	cases := []time.Time{
		time.Unix(0, 0),
		time.Unix(1514764800, 0),
		time.Unix(1514764800, 500000000),
		time.Unix(1<<34-1, 999999999),
		time.Unix(1<<35, 1),
	}
	for _, tm := range cases {
		theirs, err := msgpack.Marshal(tm.UTC())
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		ours := packInto(t, func(c *PackContext) {
			c.PackTime(tm.Unix(), uint32(tm.Nanosecond()))
		})
		if !bytes.Equal(ours, theirs) {
			t.Errorf("%v: ours %x, msgpack %x", tm, ours, theirs)
		}

		var back time.Time
		if err := msgpack.Unmarshal(ours, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !back.Equal(tm) {
			t.Errorf("%v: round-tripped to %v", tm, back)
		}

		u := NewUnpackContext(theirs, nil)
		sec, nsec := u.NextTime()
		if u.ReturnCode() != OK || sec != tm.Unix() || nsec != uint32(tm.Nanosecond()) {
			t.Errorf("%v: decoded (%d,%d) rc %v", tm, sec, nsec, u.ReturnCode())
		}
	}
}

// TestValuesDecodeWithVmihailenco feeds our encodings into typed
// Unmarshal targets.
func TestValuesDecodeWithVmihailenco(t *testing.T) {
	enc := packInto(t, func(c *PackContext) { c.PackSigned(-123456789) })
	var i int64
	if err := msgpack.Unmarshal(enc, &i); err != nil || i != -123456789 {
		t.Fatalf("int: %d %v", i, err)
	}

	enc = packInto(t, func(c *PackContext) { c.PackStr("interop") })
	var s string
	if err := msgpack.Unmarshal(enc, &s); err != nil || s != "interop" {
		t.Fatalf("str: %q %v", s, err)
	}

	enc = packInto(t, func(c *PackContext) { c.PackBin([]byte{0xde, 0xad}) })
	var raw []byte
	if err := msgpack.Unmarshal(enc, &raw); err != nil || !bytes.Equal(raw, []byte{0xde, 0xad}) {
		t.Fatalf("bin: %x %v", raw, err)
	}

	enc = packInto(t, func(c *PackContext) {
		c.PackArraySize(3)
		c.PackSigned(1)
		c.PackSigned(2)
		c.PackSigned(3)
	})
	var arr []int
	if err := msgpack.Unmarshal(enc, &arr); err != nil || len(arr) != 3 || arr[2] != 3 {
		t.Fatalf("array: %v %v", arr, err)
	}

	// And the reverse: their Marshal, our unpack.
	theirs, err := msgpack.Marshal(map[string]int64{"k": 9})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	c := NewUnpackContext(theirs, nil)
	if n := c.NextMapSize(); n != 1 {
		t.Fatalf("map %d rc %v", n, c.ReturnCode())
	}
	if k := c.NextStr(); string(k) != "k" {
		t.Fatalf("key %q", k)
	}
	if v := c.NextSigned(); v != 9 {
		t.Fatalf("val %d", v)
	}
}
