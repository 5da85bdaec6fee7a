package xhttp2

import (
	"fmt"

	"github.com/sile/xhttp2/http2utils"
)

var _ Frame = (*GoAwayFrame)(nil)

// GoAwayFrame initiates connection shutdown, telling the peer the
// highest stream id that was or might be processed, RFC 7540 §6.8.
type GoAwayFrame struct {
	lastStreamID StreamID
	code         ErrorCode
	data         []byte
}

func (ga *GoAwayFrame) Type() FrameType {
	return FrameGoAway
}

func (ga *GoAwayFrame) Error() string {
	return fmt.Sprintf("goaway: lastStreamID=%d code=%s data=%q", ga.lastStreamID, ga.code, ga.data)
}

func (ga *GoAwayFrame) Reset() {
	ga.lastStreamID = 0
	ga.code = 0
	ga.data = ga.data[:0]
}

func (ga *GoAwayFrame) CopyTo(other *GoAwayFrame) {
	other.lastStreamID = ga.lastStreamID
	other.code = ga.code
	other.data = append(other.data[:0], ga.data...)
}

func (ga *GoAwayFrame) Code() ErrorCode { return ga.code }

func (ga *GoAwayFrame) SetCode(code ErrorCode) { ga.code = code }

// LastStreamID returns the highest-numbered stream the sender processed
// or could yet process.
func (ga *GoAwayFrame) LastStreamID() StreamID { return ga.lastStreamID }

func (ga *GoAwayFrame) SetLastStreamID(id StreamID) {
	ga.lastStreamID = StreamID(mask31(uint32(id)))
}

func (ga *GoAwayFrame) Data() []byte { return ga.data }

func (ga *GoAwayFrame) SetData(b []byte) { ga.data = append(ga.data[:0], b...) }

func (ga *GoAwayFrame) Deserialize(fr *FrameHeader) error {
	if len(fr.payload) < 8 {
		return ErrMissingBytes
	}

	ga.lastStreamID = StreamID(mask31(http2utils.BytesToUint32(fr.payload)))
	ga.code = ErrorCode(http2utils.BytesToUint32(fr.payload[4:]))

	if len(fr.payload) > 8 {
		ga.data = append(ga.data[:0], fr.payload[8:]...)
	}

	return nil
}

func (ga *GoAwayFrame) Serialize(fr *FrameHeader) {
	fr.payload = http2utils.AppendUint32Bytes(fr.payload[:0], uint32(ga.lastStreamID))
	fr.payload = http2utils.AppendUint32Bytes(fr.payload, uint32(ga.code))
	fr.payload = append(fr.payload, ga.data...)
}
