package mpack

// MessagePack lead bytes. Ranges not named here embed a value or
// length in the opcode itself: 0x00-0x7f positive fixint, 0x80-0x8f
// fixmap, 0x90-0x9f fixarray, 0xa0-0xbf fixstr, 0xe0-0xff negative
// fixint.
const (
	opNil       = 0xc0
	opNeverUsed = 0xc1
	opFalse     = 0xc2
	opTrue      = 0xc3
	opBin8      = 0xc4
	opBin16     = 0xc5
	opBin32     = 0xc6
	opExt8      = 0xc7
	opExt16     = 0xc8
	opExt32     = 0xc9
	opFloat32   = 0xca
	opFloat64   = 0xcb
	opUint8     = 0xcc
	opUint16    = 0xcd
	opUint32    = 0xce
	opUint64    = 0xcf
	opInt8      = 0xd0
	opInt16     = 0xd1
	opInt32     = 0xd2
	opInt64     = 0xd3
	opFixext1   = 0xd4
	opFixext2   = 0xd5
	opFixext4   = 0xd6
	opFixext8   = 0xd7
	opFixext16  = 0xd8
	opStr8      = 0xd9
	opStr16     = 0xda
	opStr32     = 0xdb
	opArray16   = 0xdc
	opArray32   = 0xdd
	opMap16     = 0xde
	opMap32     = 0xdf

	fixmapPrefix   = 0x80
	fixarrayPrefix = 0x90
	fixstrPrefix   = 0xa0

	fixContainerMax = 15 // largest fixmap/fixarray size
	fixstrMax       = 31 // largest fixstr length
	fixintMin       = -32
)

// extTimestamp is the reserved ext type code for the Timestamp
// extension.
const extTimestamp = -1

// extTimestampByte is extTimestamp's two's-complement byte encoding,
// computed via a typed variable since Go rejects the direct constant
// conversion (-1 doesn't fit in byte).
var extTimestampByte = computeExtTimestampByte()

func computeExtTimestampByte() byte {
	v := int8(extTimestamp)
	return byte(v)
}

// Timestamp wire layout bounds.
const (
	// tsSecHighBits masks the seconds bits that do not fit the
	// 34-bit field shared by Timestamp 32 and Timestamp 64.
	tsSecHighBits uint64 = 0xfffffffc00000000
	// tsData64HighBits is non-zero when a combined (nsec<<34)|sec
	// value needs the 64-bit form rather than the 32-bit one.
	tsData64HighBits uint64 = 0xffffffff00000000

	tsExt8Length = 12 // Timestamp 96 payload: nsec be32 + sec be64

	maxNsec = 999999999
)
