package xhttp2

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sile/xhttp2/http2utils"
)

// DefaultFrameSize is the fixed size of a frame header, RFC 7540 §4.1.
const DefaultFrameSize = 9

// DefaultMaxFrameSize is SETTINGS_MAX_FRAME_SIZE's default value, the
// smallest value a peer is allowed to advertise.
const DefaultMaxFrameSize = 1 << 14

// ErrUnknownFrameType is returned by ReadFrom when the frame header names
// a type above FrameContinuation. Per RFC 7540 §4.1 unknown frame types
// are skipped rather than treated as a connection error, so callers
// should discard and continue reading on this error rather than tear the
// connection down.
var ErrUnknownFrameType = errors.New("xhttp2: unknown frame type")

// ErrPayloadExceeds is returned when a frame's declared length exceeds the
// negotiated SETTINGS_MAX_FRAME_SIZE for the reader.
var ErrPayloadExceeds = errors.New("xhttp2: frame payload exceeds max frame size")

var frameHeaderPool = sync.Pool{
	New: func() interface{} {
		return &FrameHeader{}
	},
}

// FrameHeader is the 9-byte envelope shared by every frame type plus the
// decoded payload living behind it.
//
// Use AcquireFrameHeader rather than allocating one directly, and
// ReleaseFrameHeader once done with it. A FrameHeader must not be used
// from more than one goroutine at a time.
//
// https://tools.ietf.org/html/rfc7540#section-4.1
type FrameHeader struct {
	length int        // 24 bits on the wire
	kind   FrameType  // 8 bits
	flags  FrameFlags // 8 bits
	stream StreamID   // 31 bits (reserved bit always clear after parsing)

	maxLen uint32

	rawHeader [DefaultFrameSize]byte
	payload   []byte

	fr Frame
}

// AcquireFrameHeader returns a pooled, reset FrameHeader.
func AcquireFrameHeader() *FrameHeader {
	frh := frameHeaderPool.Get().(*FrameHeader)
	frh.Reset()
	return frh
}

// ReleaseFrameHeader releases frh's body (if any) and returns frh to the
// pool.
func ReleaseFrameHeader(frh *FrameHeader) {
	if frh.fr != nil {
		ReleaseFrame(frh.fr)
	}
	frameHeaderPool.Put(frh)
}

// Reset clears frh for reuse.
func (frh *FrameHeader) Reset() {
	frh.kind = 0
	frh.flags = 0
	frh.stream = 0
	frh.length = 0
	frh.maxLen = DefaultMaxFrameSize
	frh.fr = nil
	frh.payload = frh.payload[:0]
}

// Type returns the frame type named by this header.
func (frh *FrameHeader) Type() FrameType {
	return frh.kind
}

// Flags returns the raw flag bits.
func (frh *FrameHeader) Flags() FrameFlags {
	return frh.flags
}

// SetFlags replaces the flag bits.
func (frh *FrameHeader) SetFlags(flags FrameFlags) {
	frh.flags = flags
}

// Stream returns the stream id this frame is scoped to (0 for
// connection-level frames).
func (frh *FrameHeader) Stream() StreamID {
	return frh.stream
}

// SetStream sets the stream id. The caller is responsible for keeping it
// within 31 bits; the reserved high bit is never transmitted regardless
// of what is stored here.
func (frh *FrameHeader) SetStream(stream StreamID) {
	frh.stream = stream
}

// Len returns the payload length as declared on the wire.
func (frh *FrameHeader) Len() int {
	return frh.length
}

// MaxLen returns the max payload length this header will accept on read.
func (frh *FrameHeader) MaxLen() uint32 {
	return frh.maxLen
}

// SetMaxLen sets the negotiated SETTINGS_MAX_FRAME_SIZE this header
// enforces against incoming payloads.
func (frh *FrameHeader) SetMaxLen(n uint32) {
	frh.maxLen = n
}

// Body returns the decoded frame payload, or nil before ReadFrom/SetBody.
func (frh *FrameHeader) Body() Frame {
	return frh.fr
}

// SetBody attaches fr as this header's payload, adopting fr's type.
func (frh *FrameHeader) SetBody(fr Frame) {
	if fr == nil {
		panic("xhttp2: FrameHeader.SetBody called with nil Frame")
	}
	frh.kind = fr.Type()
	frh.fr = fr
}

func (frh *FrameHeader) parseValues(header []byte) {
	frh.length = int(http2utils.BytesToUint24(header[:3]))
	frh.kind = FrameType(header[3])
	frh.flags = FrameFlags(header[4])
	frh.stream = StreamID(mask31(http2utils.BytesToUint32(header[5:])))
}

func (frh *FrameHeader) packValues(header []byte) {
	http2utils.Uint24ToBytes(header[:3], uint32(frh.length))
	header[3] = byte(frh.kind)
	header[4] = byte(frh.flags)
	http2utils.Uint32ToBytes(header[5:], mask31(uint32(frh.stream)))
}

func (frh *FrameHeader) checkLen() error {
	if frh.maxLen != 0 && frh.length > int(frh.maxLen) {
		return ErrPayloadExceeds
	}
	return nil
}

// ReadFrameFrom reads and decodes the next frame from br using the
// default max frame size.
func ReadFrameFrom(br *bufio.Reader) (*FrameHeader, error) {
	return ReadFrameFromWithSize(br, DefaultMaxFrameSize)
}

// ReadFrameFromWithSize reads and decodes the next frame from br,
// rejecting any payload larger than max.
func ReadFrameFromWithSize(br *bufio.Reader, max uint32) (*FrameHeader, error) {
	frh := AcquireFrameHeader()
	frh.maxLen = max

	_, err := frh.readFrom(br)
	if err != nil {
		ReleaseFrameHeader(frh)
		return nil, err
	}
	return frh, nil
}

// ReadFrom reads one frame (header + payload) from br, decoding its body
// in place. It does not read to io.EOF, unlike io.ReaderFrom.
func (frh *FrameHeader) ReadFrom(br *bufio.Reader) (int64, error) {
	return frh.readFrom(br)
}

func (frh *FrameHeader) readFrom(br *bufio.Reader) (int64, error) {
	header, err := br.Peek(DefaultFrameSize)
	if err != nil {
		return 0, err
	}
	br.Discard(DefaultFrameSize)

	rn := int64(DefaultFrameSize)

	frh.parseValues(header)
	if err := frh.checkLen(); err != nil {
		io.CopyN(io.Discard, br, int64(frh.length))
		return rn, err
	}

	if frh.kind < minFrameType || frh.kind > maxFrameType {
		io.CopyN(io.Discard, br, int64(frh.length))
		return rn, ErrUnknownFrameType
	}
	frh.fr = AcquireFrame(frh.kind)

	if frh.length > 0 {
		n := frh.length
		if n < 0 {
			panic(fmt.Sprintf("xhttp2: negative frame length %d", n))
		}

		frh.payload = http2utils.Resize(frh.payload, n)

		n, err = io.ReadFull(br, frh.payload[:n])
		rn += int64(n)
		if err != nil {
			return rn, err
		}
	} else {
		frh.payload = frh.payload[:0]
	}

	return rn, frh.fr.Deserialize(frh)
}

// WriteTo serializes frh's body and writes the full frame (header +
// payload) to w.
func (frh *FrameHeader) WriteTo(w *bufio.Writer) (int64, error) {
	frh.fr.Serialize(frh)

	frh.length = len(frh.payload)
	frh.packValues(frh.rawHeader[:])

	var wb int64
	n, err := w.Write(frh.rawHeader[:])
	wb += int64(n)
	if err != nil {
		return wb, err
	}

	n, err = w.Write(frh.payload)
	wb += int64(n)
	return wb, err
}

func (frh *FrameHeader) setPayload(payload []byte) {
	frh.payload = append(frh.payload[:0], payload...)
}
