package xhttp2

import (
	"github.com/sile/xhttp2/http2utils"
)

var (
	_ Frame            = (*HeadersFrame)(nil)
	_ FrameWithHeaders = (*HeadersFrame)(nil)
)

// HeadersFrame opens a stream and carries (the first fragment of) its
// header block, RFC 7540 §6.2. It may carry PRIORITY fields inline when
// the PRIORITY flag is set.
type HeadersFrame struct {
	padded     bool
	streamDep  StreamID
	exclusive  bool
	weight     byte
	hasWeight  bool
	endStream  bool
	endHeaders bool
	rawHeaders []byte
}

func (h *HeadersFrame) Type() FrameType {
	return FrameHeaders
}

func (h *HeadersFrame) Reset() {
	h.padded = false
	h.streamDep = 0
	h.exclusive = false
	h.weight = 0
	h.hasWeight = false
	h.endStream = false
	h.endHeaders = false
	h.rawHeaders = h.rawHeaders[:0]
}

func (h *HeadersFrame) CopyTo(h2 *HeadersFrame) {
	h2.padded = h.padded
	h2.streamDep = h.streamDep
	h2.exclusive = h.exclusive
	h2.weight = h.weight
	h2.hasWeight = h.hasWeight
	h2.endStream = h.endStream
	h2.endHeaders = h.endHeaders
	h2.rawHeaders = append(h2.rawHeaders[:0], h.rawHeaders...)
}

// HeaderBlockFragment returns the (still HPACK-compressed) header bytes.
func (h *HeadersFrame) HeaderBlockFragment() []byte { return h.rawHeaders }

// SetHeaderBlockFragment replaces the header-block bytes.
func (h *HeadersFrame) SetHeaderBlockFragment(b []byte) {
	h.rawHeaders = append(h.rawHeaders[:0], b...)
}

// AppendHeaderBlockFragment appends b to the header-block bytes.
func (h *HeadersFrame) AppendHeaderBlockFragment(b []byte) {
	h.rawHeaders = append(h.rawHeaders, b...)
}

func (h *HeadersFrame) EndStream() bool { return h.endStream }

func (h *HeadersFrame) SetEndStream(v bool) { h.endStream = v }

func (h *HeadersFrame) EndHeaders() bool { return h.endHeaders }

func (h *HeadersFrame) SetEndHeaders(v bool) { h.endHeaders = v }

// StreamDep and Weight are only meaningful when HasPriority reports true.
func (h *HeadersFrame) StreamDep() StreamID { return h.streamDep }

func (h *HeadersFrame) SetStreamDep(stream StreamID) { h.streamDep = stream }

func (h *HeadersFrame) Exclusive() bool { return h.exclusive }

func (h *HeadersFrame) SetExclusive(v bool) { h.exclusive = v }

func (h *HeadersFrame) Weight() byte { return h.weight }

func (h *HeadersFrame) SetWeight(w byte) {
	h.weight = w
	h.hasWeight = true
}

// HasPriority reports whether this frame carries inline PRIORITY fields.
func (h *HeadersFrame) HasPriority() bool { return h.hasWeight }

func (h *HeadersFrame) Padded() bool { return h.padded }

func (h *HeadersFrame) SetPadded(v bool) { h.padded = v }

func (h *HeadersFrame) Deserialize(frh *FrameHeader) error {
	flags := frh.Flags()
	payload := frh.payload

	if flags.Has(FlagPadded) {
		var err error
		payload, err = http2utils.CutPadding(payload, frh.Len())
		if err != nil {
			return err
		}
	}

	if flags.Has(FlagPriority) {
		if len(payload) < 5 {
			return ErrMissingBytes
		}

		raw := http2utils.BytesToUint32(payload)
		h.exclusive = raw&0x80000000 != 0
		h.streamDep = StreamID(mask31(raw))
		h.weight = payload[4]
		h.hasWeight = true
		payload = payload[5:]
	}

	h.padded = flags.Has(FlagPadded)
	h.endStream = flags.Has(FlagEndStream)
	h.endHeaders = flags.Has(FlagEndHeaders)
	h.rawHeaders = append(h.rawHeaders[:0], payload...)

	return nil
}

func (h *HeadersFrame) Serialize(frh *FrameHeader) {
	if h.endStream {
		frh.SetFlags(frh.Flags().Add(FlagEndStream))
	}

	if h.endHeaders {
		frh.SetFlags(frh.Flags().Add(FlagEndHeaders))
	}

	payload := frh.payload[:0]

	if h.hasWeight {
		frh.SetFlags(frh.Flags().Add(FlagPriority))

		raw := uint32(h.streamDep)
		if h.exclusive {
			raw |= 0x80000000
		}
		payload = http2utils.AppendUint32Bytes(payload, raw)
		payload = append(payload, h.weight)
	}

	payload = append(payload, h.rawHeaders...)

	if h.padded {
		frh.SetFlags(frh.Flags().Add(FlagPadded))
		payload = http2utils.AddPadding(payload)
	}

	frh.payload = payload
}
