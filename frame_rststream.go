package xhttp2

import (
	"github.com/sile/xhttp2/http2utils"
)

var _ Frame = (*RstStreamFrame)(nil)

// RstStreamFrame immediately terminates a stream, RFC 7540 §6.4.
type RstStreamFrame struct {
	code ErrorCode
}

func (rst *RstStreamFrame) Type() FrameType {
	return FrameResetStream
}

func (rst *RstStreamFrame) Code() ErrorCode { return rst.code }

func (rst *RstStreamFrame) SetCode(code ErrorCode) { rst.code = code }

func (rst *RstStreamFrame) Reset() { rst.code = 0 }

func (rst *RstStreamFrame) CopyTo(r *RstStreamFrame) { r.code = rst.code }

func (rst *RstStreamFrame) Deserialize(fr *FrameHeader) error {
	if len(fr.payload) < 4 {
		return ErrMissingBytes
	}

	rst.code = ErrorCode(http2utils.BytesToUint32(fr.payload))

	return nil
}

func (rst *RstStreamFrame) Serialize(fr *FrameHeader) {
	fr.payload = http2utils.AppendUint32Bytes(fr.payload[:0], uint32(rst.code))
}
