package xhttp2

var (
	_ Frame            = (*ContinuationFrame)(nil)
	_ FrameWithHeaders = (*ContinuationFrame)(nil)
)

// FrameWithHeaders is implemented by the three frame types that carry a
// header-block fragment (HEADERS, PUSH_PROMISE, CONTINUATION).
type FrameWithHeaders interface {
	HeaderBlockFragment() []byte
}

// ContinuationFrame carries the remainder of a header block that didn't
// fit in the preceding HEADERS or PUSH_PROMISE frame, RFC 7540 §6.10.
type ContinuationFrame struct {
	endHeaders bool
	rawHeaders []byte
}

func (c *ContinuationFrame) Type() FrameType {
	return FrameContinuation
}

func (c *ContinuationFrame) Reset() {
	c.endHeaders = false
	c.rawHeaders = c.rawHeaders[:0]
}

func (c *ContinuationFrame) CopyTo(cc *ContinuationFrame) {
	cc.endHeaders = c.endHeaders
	cc.rawHeaders = append(cc.rawHeaders[:0], c.rawHeaders...)
}

// HeaderBlockFragment returns the raw, still-compressed header bytes.
func (c *ContinuationFrame) HeaderBlockFragment() []byte { return c.rawHeaders }

func (c *ContinuationFrame) SetEndHeaders(v bool) { c.endHeaders = v }

func (c *ContinuationFrame) EndHeaders() bool { return c.endHeaders }

func (c *ContinuationFrame) SetHeaderBlockFragment(b []byte) {
	c.rawHeaders = append(c.rawHeaders[:0], b...)
}

func (c *ContinuationFrame) Deserialize(fr *FrameHeader) error {
	c.endHeaders = fr.Flags().Has(FlagEndHeaders)
	c.SetHeaderBlockFragment(fr.payload)

	return nil
}

func (c *ContinuationFrame) Serialize(fr *FrameHeader) {
	if c.endHeaders {
		fr.SetFlags(fr.Flags().Add(FlagEndHeaders))
	}

	fr.setPayload(c.rawHeaders)
}
