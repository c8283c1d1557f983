package wire

import "fmt"

// Kind identifies the category of a frame-level error.
type Kind uint8

const (
	// KindTimeout indicates no reply arrived within the transaction timeout.
	KindTimeout Kind = iota
	// KindCrcMismatch indicates a frame was received but its CRC16 did not verify.
	KindCrcMismatch
	// KindShortFrame indicates a frame shorter than the minimum valid length.
	KindShortFrame
	// KindUnexpectedFunction indicates the response function code did not
	// match the request (and was not the request's exception variant).
	KindUnexpectedFunction
	// KindUnexpectedLength indicates a response carried an unexpected byte count.
	KindUnexpectedLength
	// KindModbusException indicates the slave returned an exception response.
	KindModbusException
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "Timeout"
	case KindCrcMismatch:
		return "CrcMismatch"
	case KindShortFrame:
		return "ShortFrame"
	case KindUnexpectedFunction:
		return "UnexpectedFunction"
	case KindUnexpectedLength:
		return "UnexpectedLength"
	case KindModbusException:
		return "ModbusException"
	default:
		return "Unknown"
	}
}

// FrameError is returned by codec operations. Code is populated only for
// KindModbusException and carries the exception byte returned by the slave.
type FrameError struct {
	Kind Kind
	Code uint8
	err  error
}

func (e *FrameError) Error() string {
	if e.Kind == KindModbusException {
		return fmt.Sprintf("modbus: exception %s (code 0x%02x)", ExceptionName(e.Code), e.Code)
	}
	if e.err != nil {
		return fmt.Sprintf("modbus: %s: %v", e.Kind, e.err)
	}
	return fmt.Sprintf("modbus: %s", e.Kind)
}

func (e *FrameError) Unwrap() error { return e.err }

// Is allows errors.Is(err, wire.ErrTimeout) style matching against the
// package-level sentinels below, comparing by Kind rather than identity.
func (e *FrameError) Is(target error) bool {
	t, ok := target.(*FrameError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors for use with errors.Is. Wrap with fmt.Errorf("...: %w", ErrX)
// or construct a *FrameError directly when more context is needed.
var (
	ErrTimeout             = &FrameError{Kind: KindTimeout}
	ErrCrcMismatch         = &FrameError{Kind: KindCrcMismatch}
	ErrShortFrame          = &FrameError{Kind: KindShortFrame}
	ErrUnexpectedFunction  = &FrameError{Kind: KindUnexpectedFunction}
	ErrUnexpectedLength    = &FrameError{Kind: KindUnexpectedLength}
)

// Base errors wrapped by wrapf to give %w something concrete to unwrap to,
// independent of the FrameError's own Kind-based Is().
var (
	errShortFrame       = fmt.Errorf("frame shorter than minimum length")
	errUnitMismatch     = fmt.Errorf("unit id mismatch")
	errFunctionMismatch = fmt.Errorf("function code mismatch")
	errLengthMismatch   = fmt.Errorf("unexpected byte count")
)

// NewExceptionError builds a FrameError for a Modbus exception response.
func NewExceptionError(code uint8) *FrameError {
	return &FrameError{Kind: KindModbusException, Code: code}
}

// wrapf builds a FrameError of the given kind wrapping err with context.
func wrapf(kind Kind, err error, format string, args ...any) *FrameError {
	return &FrameError{Kind: kind, err: fmt.Errorf(format+": %w", append(args, err)...)}
}
