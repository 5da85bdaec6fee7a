package xhttp2

import (
	"github.com/sile/xhttp2/http2utils"
)

var _ Frame = (*DataFrame)(nil)

// DataFrame carries the body of a stream, RFC 7540 §6.1. It may use the
// END_STREAM and PADDED flags.
type DataFrame struct {
	endStream bool
	padded    bool
	b         []byte
}

func (data *DataFrame) Type() FrameType {
	return FrameData
}

func (data *DataFrame) Reset() {
	data.endStream = false
	data.padded = false
	data.b = data.b[:0]
}

// CopyTo copies data into d.
func (data *DataFrame) CopyTo(d *DataFrame) {
	d.endStream = data.endStream
	d.padded = data.padded
	d.b = append(d.b[:0], data.b...)
}

func (data *DataFrame) SetEndStream(v bool) { data.endStream = v }
func (data *DataFrame) EndStream() bool     { return data.endStream }

// Data returns the frame's raw payload bytes.
func (data *DataFrame) Data() []byte { return data.b }

// SetData replaces the frame's payload.
func (data *DataFrame) SetData(b []byte) { data.b = append(data.b[:0], b...) }

// Append appends b to the existing payload.
func (data *DataFrame) Append(b []byte) { data.b = append(data.b, b...) }

func (data *DataFrame) Len() int { return len(data.b) }

func (data *DataFrame) Padded() bool      { return data.padded }
func (data *DataFrame) SetPadded(v bool) { data.padded = v }

func (data *DataFrame) Deserialize(fr *FrameHeader) error {
	payload := fr.payload

	if fr.Flags().Has(FlagPadded) {
		var err error
		payload, err = http2utils.CutPadding(payload, fr.Len())
		if err != nil {
			return err
		}
	}

	data.endStream = fr.Flags().Has(FlagEndStream)
	data.b = append(data.b[:0], payload...)

	return nil
}

func (data *DataFrame) Serialize(fr *FrameHeader) {
	if data.endStream {
		fr.SetFlags(fr.Flags().Add(FlagEndStream))
	}

	if data.padded {
		fr.SetFlags(fr.Flags().Add(FlagPadded))
		data.b = http2utils.AddPadding(data.b)
	}

	fr.setPayload(data.b)
}
