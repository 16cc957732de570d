// Package mpack is a streaming codec for the MessagePack binary
// serialization format.
//
// The package is built around two small context values that a caller
// initializes against a byte buffer it owns:
//
//   - PackContext writes a sequence of typed values at a cursor, always
//     choosing the shortest legal wire encoding.
//   - UnpackContext scans a buffer and reports one tagged Item at a
//     time, without copying payload bytes (str/bin/ext payloads are
//     views into the input buffer).
//
// Neither context allocates or owns memory. When a write would run past
// the end of the region, or a read would run out of bytes, the context
// invokes a caller-supplied handler that may remap the cursor onto a
// fresh buffer; see PackOverflowHandler and UnpackUnderflowHandler.
// StreamPacker and StreamUnpacker wire these handlers to io.Writer and
// io.Reader for the common streaming case.
//
// Errors are coded, not returned per call: the first failure makes a
// context sticky and every later operation is a silent no-op. Check
// (*PackContext).ReturnCode / (*UnpackContext).ReturnCode at sensible
// batch boundaries, or use Err to obtain a typed error.
package mpack

// ItemType discriminates a decoded Item. Values in [-128,127] are
// MessagePack extension type codes reported as-is: reserved codes
// occupy [-128,-1] (only ItemTimestamp is defined) and user codes
// occupy [0,127]. The named kinds sit outside the ext range so that a
// single tag covers both.
type ItemType int

const (
	ItemMinReservedExt ItemType = -128
	ItemTimestamp      ItemType = -1
	ItemMaxReservedExt ItemType = -1
	ItemMinUserExt     ItemType = 0
	ItemMaxUserExt     ItemType = 127

	ItemNil             ItemType = 300
	ItemBoolean         ItemType = 301
	ItemPositiveInteger ItemType = 302
	ItemNegativeInteger ItemType = 303
	ItemFloat           ItemType = 304
	ItemDouble          ItemType = 305
	ItemStr             ItemType = 306
	ItemBin             ItemType = 307
	ItemArray           ItemType = 308
	ItemMap             ItemType = 309
	ItemExt             ItemType = 310

	// NotAnItem is the sentinel returned by LookAhead when no item can
	// be classified.
	NotAnItem ItemType = 999
)

// String implements fmt.Stringer
func (t ItemType) String() string {
	switch {
	case t == ItemTimestamp:
		return "timestamp"
	case t >= ItemMinReservedExt && t < ItemMaxReservedExt:
		return "reserved ext"
	case t >= ItemMinUserExt && t <= ItemMaxUserExt:
		return "ext"
	}
	switch t {
	case ItemNil:
		return "nil"
	case ItemBoolean:
		return "boolean"
	case ItemPositiveInteger:
		return "positive integer"
	case ItemNegativeInteger:
		return "negative integer"
	case ItemFloat:
		return "float"
	case ItemDouble:
		return "double"
	case ItemStr:
		return "str"
	case ItemBin:
		return "bin"
	case ItemArray:
		return "array"
	case ItemMap:
		return "map"
	case ItemExt:
		return "ext"
	case NotAnItem:
		return "not-an-item"
	default:
		return "<invalid>"
	}
}

// Item is one decoded MessagePack value. Type selects which payload
// fields are meaningful:
//
//	ItemBoolean           Bool
//	ItemPositiveInteger   Uint (always >= 0 as uint64)
//	ItemNegativeInteger   Int  (always < 0)
//	ItemFloat             Float
//	ItemDouble            Double
//	ItemStr, ItemBin      Blob
//	ItemArray, ItemMap    Size (elements resp. key/value pairs)
//	ext codes [-128,127]  Blob
//	ItemTimestamp         Sec/Nsec when decoded from the ext-8 wire
//	                      form; Blob (undecoded) for fixext forms
//
// Blob aliases the context's input buffer: it is valid until the next
// underflow refill or any operation that replaces that buffer.
type Item struct {
	Type ItemType

	Bool   bool
	Uint   uint64
	Int    int64
	Float  float32
	Double float64
	Size   uint32
	Blob   []byte
	Sec    int64
	Nsec   uint32
}

// PackOverflowHandler is invoked when a pack operation needs more room
// than the context's region has left. needed is the number of
// contiguous writable bytes the operation requires at the cursor. The
// handler must either make that much room available (growing or
// relocating the region via SetBuffer, preserving already-written
// bytes) and return OK, or return a non-zero code to abort the
// context.
type PackOverflowHandler func(c *PackContext, needed int) ReturnCode

// PackFlushHandler is invoked by (*PackContext).Flush. It consumes the
// bytes in [start,current) and rewinds the cursor, or returns a
// non-zero code.
type PackFlushHandler func(c *PackContext) ReturnCode

// UnpackUnderflowHandler is invoked when a decode needs more input than
// the region has left. needed is the number of contiguous readable
// bytes required at the cursor. The handler either supplies them
// (remapping via SetBuffer, typically after sliding the unread tail to
// the front) and returns OK, or returns non-zero. Returning EndOfInput
// is the conventional "no more data" signal; the context translates it
// to EndOfInput or BufferUnderflow depending on whether the shortfall
// hit an item boundary.
type UnpackUnderflowHandler func(c *UnpackContext, needed int) ReturnCode

// recursionLimit bounds the call depth of the recursive renderers
// (diag, JSON). The core Next/Skip paths are iterative and unaffected.
const recursionLimit = 100000
