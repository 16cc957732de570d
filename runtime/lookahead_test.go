package mpack

import "testing"

// TestLookAheadTags spot-checks the classification table and that the
// cursor never moves.
func TestLookAheadTags(t *testing.T) {
	cases := []struct {
		hex string
		typ ItemType
	}{
		{"00", ItemPositiveInteger},
		{"7f", ItemPositiveInteger},
		{"cc80", ItemPositiveInteger},
		{"cf0000000000000000", ItemPositiveInteger},
		{"e0", ItemNegativeInteger},
		{"d005", ItemNegativeInteger}, // classified from the opcode alone
		{"80", ItemMap},
		{"de0010", ItemMap},
		{"90", ItemArray},
		{"dd00000000", ItemArray},
		{"a3616263", ItemStr},
		{"d903616263", ItemStr},
		{"c0", ItemNil},
		{"c2", ItemBoolean},
		{"c3", ItemBoolean},
		{"c403616263", ItemBin},
		{"ca3fc00000", ItemFloat},
		{"cb3ff8000000000000", ItemDouble},
	}
	for _, tc := range cases {
		c := NewUnpackContext(mustHex(t, tc.hex), nil)
		if got := c.LookAhead(); got != tc.typ {
			t.Errorf("%s: %v, want %v", tc.hex, got, tc.typ)
		}
		if c.Offset() != 0 {
			t.Errorf("%s: cursor moved to %d", tc.hex, c.Offset())
		}
		if c.ReturnCode() != OK {
			t.Errorf("%s: rc %v", tc.hex, c.ReturnCode())
		}
	}
}

// TestLookAheadExtPeek: ext classification requires peeking past the
// length bytes for the signed type code.
func TestLookAheadExtPeek(t *testing.T) {
	cases := []struct {
		hex string
		typ ItemType
	}{
		{"d42a55", ItemType(42)},
		{"d6ff5a497a00", ItemTimestamp},
		{"d7ff0000000000000000", ItemTimestamp},
		{"c70cff000000010000010000000000", ItemTimestamp},
		{"c7032a555555", ItemType(42)},
		{"c80001fe55", ItemType(-2)},
		{"c9000000012a55", ItemType(42)},
	}
	for _, tc := range cases {
		c := NewUnpackContext(mustHex(t, tc.hex), nil)
		if got := c.LookAhead(); got != tc.typ {
			t.Errorf("%s: %v, want %v", tc.hex, got, tc.typ)
		}
		if c.Offset() != 0 {
			t.Errorf("%s: cursor moved to %d", tc.hex, c.Offset())
		}
	}
}

// TestLookAheadEmpty: an empty buffer yields NotAnItem with
// EndOfInput set.
func TestLookAheadEmpty(t *testing.T) {
	c := NewUnpackContext(nil, nil)
	if got := c.LookAhead(); got != NotAnItem {
		t.Fatalf("got %v", got)
	}
	if c.ReturnCode() != EndOfInput {
		t.Fatalf("rc = %v", c.ReturnCode())
	}
}

// TestLookAheadTruncatedExt: the type byte is out of reach, so the
// shortfall is mid-item.
func TestLookAheadTruncatedExt(t *testing.T) {
	c := NewUnpackContext(mustHex(t, "c705"), nil)
	if got := c.LookAhead(); got != NotAnItem {
		t.Fatalf("got %v", got)
	}
	if c.ReturnCode() != BufferUnderflow {
		t.Fatalf("rc = %v", c.ReturnCode())
	}
}

// TestLookAheadReserved: 0xc1 is NotAnItem but does not poison the
// context.
func TestLookAheadReserved(t *testing.T) {
	c := NewUnpackContext(mustHex(t, "c1"), nil)
	if got := c.LookAhead(); got != NotAnItem {
		t.Fatalf("got %v", got)
	}
	if c.ReturnCode() != OK {
		t.Fatalf("rc = %v", c.ReturnCode())
	}
}

// TestLookAheadThenNext: a look-ahead followed by Next decodes the
// same item.
func TestLookAheadThenNext(t *testing.T) {
	c := NewUnpackContext(mustHex(t, "cdffff"), nil)
	if got := c.LookAhead(); got != ItemPositiveInteger {
		t.Fatalf("lookahead %v", got)
	}
	c.Next()
	if c.Item.Type != ItemPositiveInteger || c.Item.Uint != 65535 {
		t.Fatalf("next: %+v", c.Item)
	}
}

func TestNextTypeHelper(t *testing.T) {
	if got := NextType(mustHex(t, "d6ff00000000")); got != ItemTimestamp {
		t.Fatalf("NextType timestamp = %v", got)
	}
	if got := NextType(nil); got != NotAnItem {
		t.Fatalf("NextType(nil) = %v", got)
	}
}
