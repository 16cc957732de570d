package mpack

// Worst-case encoded sizes for common types. For variable-length types
// such as str, bin and ext, the total encoded size is the
// corresponding prefix size plus the length of the payload.
const (
	Int64Size       = 9
	IntSize         = Int64Size
	UintSize        = Int64Size
	Int8Size        = 2
	Int16Size       = 3
	Int32Size       = 5
	Uint8Size       = 2
	Uint16Size      = 3
	Uint32Size      = 5
	Uint64Size      = Int64Size
	Float32Size     = 5
	Float64Size     = 9
	BoolSize        = 1
	NilSize         = 1
	MapHeaderSize   = 5
	ArrayHeaderSize = 5
	StrPrefixSize   = 5
	BinPrefixSize   = 5
	ExtPrefixSize   = 6
	TimeSize        = 15
)
