package xhttp2

import (
	"bytes"

	"golang.org/x/net/http2/hpack"
)

// HeaderField is one decoded name/value pair, mirroring the wire shape
// hpack.HeaderField exposes, kept as our own type so callers never need
// to import golang.org/x/net/http2/hpack directly.
type HeaderField struct {
	Name      string
	Value     string
	Sensitive bool
}

// Header wraps the HPACK compressor and decompressor of one connection. RFC 7541 treats HPACK state as tied to the connection, not
// the stream, so a Connection keeps exactly one encoder and one decoder,
// shared across every stream it multiplexes.
//
// Header does not implement HPACK itself — golang.org/x/net/http2/hpack
// does the actual Huffman coding and (in)decrementing of the dynamic
// table, per this module's explicit choice to treat compression as an
// external collaborator.
type Header struct {
	enc    *hpack.Encoder
	encBuf bytes.Buffer

	dec     *hpack.Decoder
	emitted []HeaderField
}

// NewHeader constructs a Header ready to encode and decode header
// blocks. encoderMax bounds the encoder's dynamic table (the peer's
// advertised SETTINGS_HEADER_TABLE_SIZE) and decoderMax bounds the
// decoder's (this endpoint's own advertised value); both are
// renegotiated later as SETTINGS frames arrive.
func NewHeader(encoderMax, decoderMax uint32) *Header {
	h := &Header{}
	h.enc = hpack.NewEncoder(&h.encBuf)
	h.enc.SetMaxDynamicTableSize(encoderMax)

	h.dec = hpack.NewDecoder(decoderMax, func(f hpack.HeaderField) {
		h.emitted = append(h.emitted, HeaderField{
			Name:      f.Name,
			Value:     f.Value,
			Sensitive: f.Sensitive,
		})
	})

	return h
}

// SetEncoderMaxDynamicTableSize bounds the table size used to compress
// headers sent to the peer. Called when the peer's own
// SETTINGS_HEADER_TABLE_SIZE changes, since that value is the peer's
// decoder telling us the largest table its side is willing to track.
func (h *Header) SetEncoderMaxDynamicTableSize(size uint32) {
	h.enc.SetMaxDynamicTableSize(size)
}

// SetDecoderMaxDynamicTableSize bounds the table this endpoint's own
// decoder tracks. It should track the SETTINGS_HEADER_TABLE_SIZE value
// this endpoint itself advertises, not anything the peer sends.
func (h *Header) SetDecoderMaxDynamicTableSize(size uint32) {
	h.dec.SetMaxDynamicTableSize(size)
}

// Encode appends the HPACK representation of fields to dst and returns
// the extended slice.
func (h *Header) Encode(dst []byte, fields []HeaderField) ([]byte, error) {
	h.encBuf.Reset()

	for _, f := range fields {
		err := h.enc.WriteField(hpack.HeaderField{
			Name:      f.Name,
			Value:     f.Value,
			Sensitive: f.Sensitive,
		})
		if err != nil {
			return dst, err
		}
	}

	return append(dst, h.encBuf.Bytes()...), nil
}

// Decode parses a complete (potentially multi-frame, already reassembled)
// header block and returns the decoded fields, in wire order.
func (h *Header) Decode(block []byte) ([]HeaderField, error) {
	h.emitted = h.emitted[:0]

	if _, err := h.dec.Write(block); err != nil {
		return nil, err
	}
	if err := h.dec.Close(); err != nil {
		return nil, err
	}

	return append([]HeaderField(nil), h.emitted...), nil
}
