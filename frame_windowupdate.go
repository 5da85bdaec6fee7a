package xhttp2

import (
	"github.com/sile/xhttp2/http2utils"
)

var _ Frame = (*WindowUpdateFrame)(nil)

// WindowUpdateFrame grants additional flow-control credit to the
// connection or a single stream, RFC 7540 §6.9.
type WindowUpdateFrame struct {
	increment int32
}

func (wu *WindowUpdateFrame) Type() FrameType {
	return FrameWindowUpdate
}

func (wu *WindowUpdateFrame) Reset() { wu.increment = 0 }

func (wu *WindowUpdateFrame) CopyTo(w *WindowUpdateFrame) { w.increment = wu.increment }

func (wu *WindowUpdateFrame) Increment() int32 { return wu.increment }

// SetIncrement sets the window-size increment. Valid range is 1 to
// 2^31-1; callers are responsible for staying within it.
func (wu *WindowUpdateFrame) SetIncrement(increment int32) { wu.increment = increment }

func (wu *WindowUpdateFrame) Deserialize(fr *FrameHeader) error {
	if len(fr.payload) < 4 {
		return ErrMissingBytes
	}

	wu.increment = int32(mask31(http2utils.BytesToUint32(fr.payload)))

	return nil
}

func (wu *WindowUpdateFrame) Serialize(fr *FrameHeader) {
	fr.payload = http2utils.AppendUint32Bytes(fr.payload[:0], uint32(wu.increment))
}
