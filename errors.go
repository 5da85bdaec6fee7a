package xhttp2

import (
	"errors"
	"fmt"
)

// ErrorCode is one of the RFC 7540 §7 error codes. It is a uint32 so it
// can be read straight out of a GOAWAY or RST_STREAM payload.
type ErrorCode uint32

// Error codes, http://httpwg.org/specs/rfc7540.html#ErrorCodes
const (
	NoError            ErrorCode = 0x0
	ProtocolError      ErrorCode = 0x1
	InternalError      ErrorCode = 0x2
	FlowControlError   ErrorCode = 0x3
	SettingsTimeout    ErrorCode = 0x4
	StreamClosedError  ErrorCode = 0x5
	FrameSizeError     ErrorCode = 0x6
	RefusedStreamError ErrorCode = 0x7
	CancelError        ErrorCode = 0x8
	CompressionError   ErrorCode = 0x9
	ConnectError       ErrorCode = 0xa
	EnhanceYourCalm    ErrorCode = 0xb
	InadequateSecurity ErrorCode = 0xc
	HTTP11Required     ErrorCode = 0xd
)

var errorCodeNames = [...]string{
	NoError:            "NO_ERROR",
	ProtocolError:      "PROTOCOL_ERROR",
	InternalError:      "INTERNAL_ERROR",
	FlowControlError:   "FLOW_CONTROL_ERROR",
	SettingsTimeout:    "SETTINGS_TIMEOUT",
	StreamClosedError:  "STREAM_CLOSED",
	FrameSizeError:     "FRAME_SIZE_ERROR",
	RefusedStreamError: "REFUSED_STREAM",
	CancelError:        "CANCEL",
	CompressionError:   "COMPRESSION_ERROR",
	ConnectError:       "CONNECT_ERROR",
	EnhanceYourCalm:    "ENHANCE_YOUR_CALM",
	InadequateSecurity: "INADEQUATE_SECURITY",
	HTTP11Required:     "HTTP_1_1_REQUIRED",
}

// String implements fmt.Stringer. Codes outside the RFC 7540 §7 table are
// rendered as UNKNOWN_ERROR with their raw numeric value; the ErrorCode
// value itself is left unchanged.
func (c ErrorCode) String() string {
	if int(c) < len(errorCodeNames) && errorCodeNames[c] != "" {
		return errorCodeNames[c]
	}
	return fmt.Sprintf("UNKNOWN_ERROR(0x%x)", uint32(c))
}

// ErrMissingBytes is returned by a frame's Deserialize when the payload
// is shorter than the frame type's fixed-size fields require.
var ErrMissingBytes = errors.New("xhttp2: frame is missing required bytes")

// Scope distinguishes a connection-fatal error from one confined to a
// single stream.
type Scope uint8

const (
	// ScopeConnection errors are reported as GOAWAY and close the transport.
	ScopeConnection Scope = iota
	// ScopeStream errors are reported as RST_STREAM and close only the stream.
	ScopeStream
)

// Error is the single error type spanning every RFC 7540 code: every
// other error produced inside this module either already is an Error, or
// gets wrapped into one at the Connection boundary: as FrameSizeError for
// the frame reader's size errors (ErrPayloadExceeds, ErrMissingBytes,
// ErrSettingsAckPayload), as InternalError for everything else.
type Error struct {
	Scope    Scope
	Code     ErrorCode
	Stream   StreamID
	Message  string
	Frame    FrameType // frame type that triggered the error, if any
	hasFrame bool
}

func (e Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http2: %s (stream=%d): %s", e.Code, e.Stream, e.Message)
	}
	return fmt.Sprintf("http2: %s (stream=%d)", e.Code, e.Stream)
}

// NewConnError builds a connection-scoped Error, the kind that is
// reported via GOAWAY and terminates the connection.
func NewConnError(code ErrorCode, message string) Error {
	return Error{Scope: ScopeConnection, Code: code, Message: message}
}

// NewStreamError builds a stream-scoped Error, reported via RST_STREAM.
func NewStreamError(stream StreamID, code ErrorCode, message string) Error {
	return Error{Scope: ScopeStream, Code: code, Stream: stream, Message: message}
}

// WithFrame annotates the error with the frame type that triggered it,
// for logging context.
func (e Error) WithFrame(t FrameType) Error {
	e.Frame = t
	e.hasFrame = true
	return e
}

// asHTTP2Error extracts an Error from err, collapsing anything else
// (I/O errors, unexpected panics turned into errors, …) into a
// connection-scoped InternalError.
func asHTTP2Error(err error) Error {
	var e Error
	if errors.As(err, &e) {
		return e
	}
	return NewConnError(InternalError, err.Error())
}
