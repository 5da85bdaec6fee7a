package xhttp2

import (
	"github.com/valyala/bytebufferpool"
)

// EventKind discriminates the variants of Event delivered on
// Connection.Events().
type EventKind uint8

const (
	// EventNewStream fires once a stream's full (possibly
	// CONTINUATION-reassembled) header block has arrived.
	EventNewStream EventKind = iota
	// EventPong fires when a PING ACK matching a Ping call is received.
	EventPong
	// EventStreamClosed fires when the peer resets a stream with
	// RST_STREAM. A stream closed by END_STREAM, or reset by this
	// endpoint, produces no event.
	EventStreamClosed
)

// Event is delivered to application code through Connection.Events(). Its
// meaning is determined by Kind; only the fields relevant to that kind
// are populated.
type Event struct {
	Kind EventKind

	Stream StreamID
	Header *StreamHandle // set for EventNewStream

	PingData [8]byte // set for EventPong

	Err error // set for EventStreamClosed: a stream Error carrying the peer's RST_STREAM code
}

// StreamItem is one unit of body data delivered to application code for
// an already-open stream, via StreamHandle.Items().
type StreamItem struct {
	Data      []byte
	EndStream bool
}

// StreamHandle is the application-facing view of one stream: its
// decoded request/response headers and a channel of body chunks. It
// carries no HTTP semantics above framing — turning HeaderFields into a
// request/response is left to a caller built on top of this module.
type StreamHandle struct {
	id      StreamID
	Headers []HeaderField

	// EndStream reports whether the HEADERS that opened this stream also
	// carried END_STREAM (i.e. there is no body).
	EndStream bool

	items chan StreamItem

	pendingHeaderBlock *bytebufferpool.ByteBuffer

	conn *Connection
	strm *Stream
}

var headerBlockPool bytebufferpool.Pool

func newStreamHandle(conn *Connection, strm *Stream) *StreamHandle {
	return &StreamHandle{
		id:    strm.id,
		items: make(chan StreamItem, 8),
		conn:  conn,
		strm:  strm,
	}
}

// SendHeaders encodes fields as a HEADERS frame (spilling into
// CONTINUATION frames as needed) and writes it to the peer. Safe to call
// from any goroutine.
func (h *StreamHandle) SendHeaders(fields []HeaderField, endStream bool) error {
	return h.conn.sendHeaders(h.id, fields, endStream)
}

// SendData chunks data into DATA frames bounded by the peer's advertised
// max frame size and by this stream's and the connection's available
// flow-control credit. It does not block waiting for credit to arrive;
// ErrFlowControlBlocked signals the caller should retry once a
// WINDOW_UPDATE has presumably replenished the window.
func (h *StreamHandle) SendData(data []byte, endStream bool) error {
	return h.conn.sendData(h.strm, data, endStream)
}

// SendTrailers encodes fields as a trailing HEADERS block and ends the
// stream.
func (h *StreamHandle) SendTrailers(fields []HeaderField) error {
	return h.conn.sendHeaders(h.id, fields, true)
}

// ID returns the stream this handle belongs to.
func (h *StreamHandle) ID() StreamID { return h.id }

// Items returns the channel of body chunks for this stream. It is closed
// once a StreamItem with EndStream set has been delivered. A reset does
// not close it: a peer's RST_STREAM is reported only as EventStreamClosed
// on Connection.Events(), and a reset sent by this endpoint is reported
// on neither channel.
func (h *StreamHandle) Items() <-chan StreamItem { return h.items }

// appendHeaderFragment buffers a HEADERS/CONTINUATION header-block
// fragment until END_HEADERS arrives, acquiring a pooled buffer on the
// first fragment of each header block.
func (h *StreamHandle) appendHeaderFragment(b []byte) {
	if h.pendingHeaderBlock == nil {
		h.pendingHeaderBlock = headerBlockPool.Get()
	}
	h.pendingHeaderBlock.Write(b)
}

// headerBlock returns the reassembled header-block bytes accumulated so
// far across HEADERS + any CONTINUATION frames.
func (h *StreamHandle) headerBlock() []byte {
	if h.pendingHeaderBlock == nil {
		return nil
	}
	return h.pendingHeaderBlock.B
}

// releaseHeaderBlock returns the reassembly buffer to its pool. Called
// once the block has been fully decoded.
func (h *StreamHandle) releaseHeaderBlock() {
	if h.pendingHeaderBlock != nil {
		headerBlockPool.Put(h.pendingHeaderBlock)
		h.pendingHeaderBlock = nil
	}
}

// push delivers a body chunk without ever blocking the caller. It
// reports whether item was accepted; false means this stream's inbound
// buffer is full because the application isn't draining Items() fast
// enough. The dispatch goroutine is the only writer to every stream's
// channel, so a blocking send here would stall frame processing for the
// whole connection over one slow consumer — conn.go's handleData treats
// a false return as a per-stream error instead of waiting.
func (h *StreamHandle) push(item StreamItem) bool {
	select {
	case h.items <- item:
	default:
		return false
	}
	if item.EndStream {
		close(h.items)
	}
	return true
}
