package mpack

import "strconv"

// ReturnCode is the terminal status of a pack or unpack context. Zero
// is success; every other value is an error. The first non-zero code
// sticks: later operations on the same context are silent no-ops and
// the code is never cleared by this package.
type ReturnCode int

const (
	OK                   ReturnCode = 0
	EndOfInput           ReturnCode = -1  // cursor at end at an item boundary
	BufferOverflow       ReturnCode = -2  // encoder out of space, no handler
	BufferUnderflow      ReturnCode = -3  // decoder out of bytes mid-item
	MalformedInput       ReturnCode = -4  // reserved/undefined lead byte
	WrongByteOrder       ReturnCode = -5  // host endianness mismatches the build-tag assertion
	ErrorInHandler       ReturnCode = -6  // handler reported failure or broke its contract
	IllegalCall          ReturnCode = -7  // ext/time in compatibility mode, Flush without handler
	MallocError          ReturnCode = -8  // reserved for handler use
	Stopped              ReturnCode = -9  // reserved for handler use
	TypeError            ReturnCode = -10 // typed accessor met a different item kind
	ValueError           ReturnCode = -11 // value out of range (nsec >= 1e9, oversized blob, ...)
	WrongTimestampLength ReturnCode = -12 // Timestamp ext payload not 4, 8 or 12 bytes
)

// String implements fmt.Stringer
func (rc ReturnCode) String() string {
	switch rc {
	case OK:
		return "ok"
	case EndOfInput:
		return "end of input"
	case BufferOverflow:
		return "buffer overflow"
	case BufferUnderflow:
		return "buffer underflow"
	case MalformedInput:
		return "malformed input"
	case WrongByteOrder:
		return "wrong byte order"
	case ErrorInHandler:
		return "error in handler"
	case IllegalCall:
		return "illegal call"
	case MallocError:
		return "malloc error"
	case Stopped:
		return "stopped"
	case TypeError:
		return "type error"
	case ValueError:
		return "value error"
	case WrongTimestampLength:
		return "wrong timestamp length"
	default:
		return "return code " + strconv.Itoa(int(rc))
	}
}

// Err converts the code to a typed error, nil for OK. The returned
// error satisfies the package Error interface and compares with
// errors.Is against the Err* variables below.
func (rc ReturnCode) Err() error {
	if rc == OK {
		return nil
	}
	if e, ok := codeErrors[rc]; ok {
		return e
	}
	return codeError{code: rc}
}

// Error is the interface satisfied by all errors that originate from
// this package.
type Error interface {
	error

	// Code returns the ReturnCode the error corresponds to.
	Code() ReturnCode

	// Resumable returns whether the context's input may still be
	// usable after the error. Wire-level failures (malformed input,
	// truncation) are not resumable; usage failures (type/value
	// errors from the typed accessors) are.
	Resumable() bool
}

var (
	// ErrEndOfInput is returned when the input ends cleanly at an
	// item boundary.
	ErrEndOfInput error = codeError{code: EndOfInput}

	// ErrBufferOverflow is returned when the encoder runs out of
	// space and no overflow handler is installed.
	ErrBufferOverflow error = codeError{code: BufferOverflow}

	// ErrBufferUnderflow is returned when the input is truncated in
	// the middle of an item.
	ErrBufferUnderflow error = codeError{code: BufferUnderflow}

	// ErrMalformedInput is returned for the reserved lead byte 0xc1.
	ErrMalformedInput error = codeError{code: MalformedInput}

	// ErrWrongByteOrder is returned when the host endianness
	// contradicts the build-tag assertion.
	ErrWrongByteOrder error = codeError{code: WrongByteOrder}

	// ErrErrorInHandler is returned when a handler failed or returned
	// OK without honoring its contract.
	ErrErrorInHandler error = codeError{code: ErrorInHandler}

	// ErrIllegalCall is returned for ext/time in compatibility mode
	// and for Flush without a flush handler.
	ErrIllegalCall error = codeError{code: IllegalCall}

	// ErrMallocError and ErrStopped correspond to the codes reserved
	// for handlers.
	ErrMallocError error = codeError{code: MallocError}
	ErrStopped     error = codeError{code: Stopped}

	// ErrTypeError is returned by typed accessors when the decoded
	// item has a different kind.
	ErrTypeError error = codeError{code: TypeError}

	// ErrValueError is returned for out-of-range values.
	ErrValueError error = codeError{code: ValueError}

	// ErrWrongTimestampLength is returned for a Timestamp ext whose
	// payload length is not 4, 8 or 12.
	ErrWrongTimestampLength error = codeError{code: WrongTimestampLength}
)

var codeErrors = map[ReturnCode]error{
	EndOfInput:           ErrEndOfInput,
	BufferOverflow:       ErrBufferOverflow,
	BufferUnderflow:      ErrBufferUnderflow,
	MalformedInput:       ErrMalformedInput,
	WrongByteOrder:       ErrWrongByteOrder,
	ErrorInHandler:       ErrErrorInHandler,
	IllegalCall:          ErrIllegalCall,
	MallocError:          ErrMallocError,
	Stopped:              ErrStopped,
	TypeError:            ErrTypeError,
	ValueError:           ErrValueError,
	WrongTimestampLength: ErrWrongTimestampLength,
}

type codeError struct {
	code ReturnCode
}

func (e codeError) Error() string { return "mpack: " + e.code.String() }

func (e codeError) Code() ReturnCode { return e.code }

func (e codeError) Resumable() bool {
	switch e.code {
	case TypeError, ValueError, IllegalCall:
		return true
	}
	return false
}
