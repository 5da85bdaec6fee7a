package xhttp2

import (
	"github.com/sile/xhttp2/http2utils"
)

var (
	_ Frame            = (*PushPromiseFrame)(nil)
	_ FrameWithHeaders = (*PushPromiseFrame)(nil)
)

// PushPromiseFrame announces a stream the server intends to push, RFC
// 7540 §6.6.
type PushPromiseFrame struct {
	padded     bool
	endHeaders bool
	promised   StreamID
	rawHeaders []byte
}

func (pp *PushPromiseFrame) Type() FrameType {
	return FramePushPromise
}

func (pp *PushPromiseFrame) Reset() {
	pp.padded = false
	pp.endHeaders = false
	pp.promised = 0
	pp.rawHeaders = pp.rawHeaders[:0]
}

func (pp *PushPromiseFrame) CopyTo(p *PushPromiseFrame) {
	p.padded = pp.padded
	p.endHeaders = pp.endHeaders
	p.promised = pp.promised
	p.rawHeaders = append(p.rawHeaders[:0], pp.rawHeaders...)
}

// PromisedStreamID returns the stream id the server reserved for the push.
func (pp *PushPromiseFrame) PromisedStreamID() StreamID { return pp.promised }

func (pp *PushPromiseFrame) SetPromisedStreamID(id StreamID) {
	pp.promised = StreamID(mask31(uint32(id)))
}

// HeaderBlockFragment returns the (still HPACK-compressed) header bytes.
func (pp *PushPromiseFrame) HeaderBlockFragment() []byte { return pp.rawHeaders }

func (pp *PushPromiseFrame) SetHeaderBlockFragment(b []byte) {
	pp.rawHeaders = append(pp.rawHeaders[:0], b...)
}

func (pp *PushPromiseFrame) EndHeaders() bool { return pp.endHeaders }

func (pp *PushPromiseFrame) SetEndHeaders(v bool) { pp.endHeaders = v }

func (pp *PushPromiseFrame) Padded() bool { return pp.padded }

func (pp *PushPromiseFrame) SetPadded(v bool) { pp.padded = v }

func (pp *PushPromiseFrame) Deserialize(fr *FrameHeader) error {
	payload := fr.payload

	if fr.Flags().Has(FlagPadded) {
		var err error
		payload, err = http2utils.CutPadding(payload, fr.Len())
		if err != nil {
			return err
		}
	}

	if len(payload) < 4 {
		return ErrMissingBytes
	}

	pp.padded = fr.Flags().Has(FlagPadded)
	pp.promised = StreamID(mask31(http2utils.BytesToUint32(payload)))
	pp.rawHeaders = append(pp.rawHeaders[:0], payload[4:]...)
	pp.endHeaders = fr.Flags().Has(FlagEndHeaders)

	return nil
}

func (pp *PushPromiseFrame) Serialize(fr *FrameHeader) {
	if pp.endHeaders {
		fr.SetFlags(fr.Flags().Add(FlagEndHeaders))
	}

	payload := http2utils.AppendUint32Bytes(fr.payload[:0], uint32(pp.promised))
	payload = append(payload, pp.rawHeaders...)

	if pp.padded {
		fr.SetFlags(fr.Flags().Add(FlagPadded))
		payload = http2utils.AddPadding(payload)
	}

	fr.payload = payload
}
