package xhttp2

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// connState is the coarse open/closed state of a Connection, checked
// with sync/atomic since readLoop, writeLoop and application goroutines
// all observe it concurrently.
type connState int32

const (
	connOpen connState = iota
	connClosed
)

// Connection is one multiplexed HTTP/2 connection: a frame reader, a
// frame writer, and a single dispatch goroutine that owns the stream
// registry and HPACK state, reachable from application code only through
// Events() and the per-stream StreamHandle/StreamItem values it hands
// out. It stops at the framing layer; turning decoded HeaderFields into
// a request or response is left to code built on top of this module.
type Connection struct {
	conn net.Conn

	br *bufio.Reader
	bw *bufio.Writer

	sink   *FrameSink
	frames *FrameStream

	header *Header

	local  Settings
	remote Settings

	// connection-level flow control, RFC 7540 §6.9.1.
	recvWindow int64 // our budget for incoming DATA, replenished by us via WINDOW_UPDATE
	sendWindow int64 // peer's granted credit for our outgoing DATA

	registry StreamRegistry

	events chan Event

	opts Options

	awaitingSettingsACK bool
	settingsACKTimer    *time.Timer
	pingTimer           *time.Timer
	pendingPing         [8]byte

	// firstFrameSeen gates RFC 7540 §3.5: the first frame a peer sends
	// after the preface must be SETTINGS.
	firstFrameSeen bool

	// awaitingContinuation and continuationStreamID enforce RFC 7540
	// §4.3 connection-wide: once a HEADERS/CONTINUATION block is left
	// unterminated by END_HEADERS, nothing but a CONTINUATION frame on
	// that same stream may follow, no matter which stream it targets.
	awaitingContinuation bool
	continuationStreamID StreamID

	// remoteGoingAway and remoteLastStreamID record a peer GOAWAY(NO_ERROR):
	// existing streams are allowed to drain and no new stream above
	// remoteLastStreamID is accepted, per RFC 7540 §6.8.
	remoteGoingAway    bool
	remoteLastStreamID StreamID

	state int32 // connState, accessed atomically

	closeOnce sync.Once
	done      chan struct{}
	closeErr  error

	// sendMu serializes the outbound path: HPACK encoding is stateful
	// and must never interleave between two streams' header blocks, and
	// DATA sends need to check-and-debit remoteWindow/sendWindow as one
	// atomic step, so both share this lock rather than each getting its
	// own.
	sendMu sync.Mutex
}

// ErrFlowControlBlocked is returned by StreamHandle.SendData when either
// the stream's or the connection's flow-control window has no credit
// left for the remaining data. The caller should hold the remainder and
// retry once a WINDOW_UPDATE has presumably arrived; this module does not
// block the sending goroutine waiting for one.
var ErrFlowControlBlocked = errors.New("xhttp2: send blocked on flow control")

// Accept performs the server-side HTTP/2 handshake over c — reading the
// client connection preface, sending this endpoint's SETTINGS frame and,
// when the local initial window is larger than the 65535 default, a
// connection WINDOW_UPDATE for the difference — and starts the
// connection's two goroutines: readLoop (which runs dispatch inline) and
// writeLoop. Events become available on the
// returned Connection's Events() channel once this returns.
func Accept(c net.Conn, opts Options) (*Connection, error) {
	opts.normalize()

	br := bufio.NewReaderSize(c, 4096)
	bw := bufio.NewWriterSize(c, DefaultMaxFrameSize)

	if err := ReadPreface(br); err != nil {
		return nil, err
	}

	conn := &Connection{
		conn:       c,
		br:         br,
		bw:         bw,
		header:     NewHeader(DefaultSettings().HeaderTableSize, opts.Settings.HeaderTableSize),
		local:      opts.Settings,
		remote:     DefaultSettings(),
		recvWindow: int64(opts.Settings.InitialWindowSize),
		sendWindow: int64(DefaultSettings().InitialWindowSize),
		events:     make(chan Event, 16),
		opts:       opts,
		done:       make(chan struct{}),
	}

	conn.sink = newFrameSink(bw, opts.Logger)
	conn.frames = newFrameStream(br, conn.local.MaxFrameSize)

	if err := conn.handshake(); err != nil {
		return nil, err
	}

	go conn.writeLoop()
	go conn.readLoop()

	return conn, nil
}

func (c *Connection) handshake() error {
	frh := AcquireFrameHeader()
	frh.SetBody(c.local.ToFrame())
	if _, err := frh.WriteTo(c.bw); err != nil {
		ReleaseFrameHeader(frh)
		return err
	}
	ReleaseFrameHeader(frh)
	c.awaitingSettingsACK = true

	if extra := int64(c.local.InitialWindowSize) - int64(DefaultSettings().InitialWindowSize); extra > 0 {
		frh = AcquireFrameHeader()
		wu := AcquireFrame(FrameWindowUpdate).(*WindowUpdateFrame)
		wu.SetIncrement(int32(extra))
		frh.SetBody(wu)
		if _, err := frh.WriteTo(c.bw); err != nil {
			ReleaseFrameHeader(frh)
			return err
		}
		ReleaseFrameHeader(frh)
	}

	return c.bw.Flush()
}

// Events returns the channel Event values are delivered on. It is closed
// once the connection's read loop exits.
func (c *Connection) Events() <-chan Event {
	return c.events
}

// Done is closed once the connection has fully shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that caused the connection to close, if any.
func (c *Connection) Err() error {
	return c.closeErr
}

func (c *Connection) isClosed() bool {
	return connState(atomic.LoadInt32(&c.state)) == connClosed
}

// Ping sends a PING frame carrying data, to be matched against an
// EventPong once the peer acknowledges it.
func (c *Connection) Ping(data [8]byte) error {
	if c.isClosed() {
		return errors.New("xhttp2: connection closed")
	}

	frh := AcquireFrameHeader()
	ping := AcquireFrame(FramePing).(*PingFrame)
	ping.SetData(data[:])
	frh.SetBody(ping)

	c.sink.Send(frh)
	return nil
}

// Shutdown sends a GOAWAY with code and stops accepting new streams. It
// does not forcibly close the transport; existing streams may still
// finish (RFC 7540 §6.8's graceful-shutdown allowance).
func (c *Connection) Shutdown(code ErrorCode) error {
	return c.goAway(code, "")
}

func (c *Connection) goAway(code ErrorCode, message string) error {
	if !atomic.CompareAndSwapInt32(&c.state, int32(connOpen), int32(connClosed)) {
		return nil
	}

	frh := AcquireFrameHeader()
	ga := AcquireFrame(FrameGoAway).(*GoAwayFrame)
	ga.SetLastStreamID(c.registry.lastClientID)
	ga.SetCode(code)
	if message != "" {
		ga.SetData([]byte(message))
	}
	frh.SetBody(ga)

	c.sink.Send(frh)

	if c.opts.Debug {
		c.opts.Logger.Printf("xhttp2: GoAway(code=%s): %s\n", code, message)
	}

	return nil
}

func (c *Connection) writeLoop() {
	defer func() {
		_ = c.conn.Close()
	}()

	if c.opts.PingInterval > 0 {
		c.pingTimer = time.AfterFunc(c.opts.PingInterval, c.sendKeepalivePing)
	}

	if err := c.sink.run(); err != nil && c.opts.Debug {
		c.opts.Logger.Printf("xhttp2: write loop: %s\n", err)
	}
}

func (c *Connection) sendKeepalivePing() {
	if c.isClosed() {
		return
	}
	_ = c.Ping(c.pendingPing)
	if c.pingTimer != nil {
		c.pingTimer.Reset(c.opts.PingInterval)
	}
}

func (c *Connection) readLoop() {
	defer c.shutdown(nil)
	defer func() {
		if r := recover(); r != nil {
			c.closeErr = fmt.Errorf("xhttp2: read loop panicked: %v\n%s", r, debug.Stack())
		}
	}()

	err := c.frames.run(c.dispatch)
	if err != nil && !errors.Is(err, io.EOF) {
		// Errors surfaced by the frame reader itself, below dispatch,
		// never got a chance to reach goAwayErr's callers; route them
		// through it here so a malformed frame still gets a GOAWAY
		// instead of just a dropped connection.
		if errors.Is(err, ErrPayloadExceeds) || errors.Is(err, ErrMissingBytes) || errors.Is(err, ErrSettingsAckPayload) {
			err = NewConnError(FrameSizeError, err.Error())
		}
		c.closeErr = c.goAwayErr(err)
	}
}

func (c *Connection) shutdown(err error) {
	c.closeOnce.Do(func() {
		if err != nil {
			c.closeErr = err
		}
		atomic.StoreInt32(&c.state, int32(connClosed))
		if c.pingTimer != nil {
			c.pingTimer.Stop()
		}
		if c.settingsACKTimer != nil {
			c.settingsACKTimer.Stop()
		}
		if c.opts.OnDisconnect != nil {
			c.opts.OnDisconnect(c)
		}
		c.sink.Close()
		close(c.events)
		close(c.done)
	})
}

// dispatch handles one decoded frame. It runs entirely on the read
// goroutine, which is also the sole owner of the stream registry and
// HPACK decoder, so none of this needs its own locking.
func (c *Connection) dispatch(frh *FrameHeader) error {
	defer ReleaseFrameHeader(frh)

	if !c.firstFrameSeen {
		c.firstFrameSeen = true
		if frh.Type() != FrameSettings {
			return c.goAwayErr(NewConnError(ProtocolError, "first frame from peer must be SETTINGS"))
		}
	}

	if c.awaitingContinuation {
		if frh.Type() != FrameContinuation || frh.Stream() != c.continuationStreamID {
			return c.goAwayErr(NewConnError(ProtocolError, "expected a CONTINUATION frame on the stream reassembling headers"))
		}
	}

	var err error
	if frh.Stream() == StreamControl {
		err = c.dispatchConnFrame(frh)
	} else {
		err = c.dispatchStreamFrame(frh)
	}
	if err != nil {
		return err
	}

	if c.remoteGoingAway && c.registry.Len() == 0 {
		// The peer said goodbye and every stream it left us to drain has
		// now closed; end the read loop cleanly, no GOAWAY of our own
		// needed since the peer already sent theirs.
		return io.EOF
	}
	return nil
}

func (c *Connection) dispatchConnFrame(frh *FrameHeader) error {
	switch frh.Type() {
	case FrameSettings:
		return c.handleSettings(frh.Body().(*SettingsFrame))

	case FramePing:
		return c.handlePing(frh.Body().(*PingFrame))

	case FrameWindowUpdate:
		return c.handleConnWindowUpdate(frh.Body().(*WindowUpdateFrame))

	case FrameGoAway:
		ga := frh.Body().(*GoAwayFrame)
		if ga.Code() != NoError {
			return fmt.Errorf("xhttp2: peer sent goaway: %s: %s", ga.Code(), ga.Data())
		}

		// RFC 7540 §6.8: a NO_ERROR GOAWAY is a graceful shutdown
		// request. Streams already open are allowed to finish; no
		// stream above the peer's last stream id is accepted from here
		// on. dispatch's caller notices once the registry drains and
		// ends the read loop then, not now.
		c.remoteGoingAway = true
		c.remoteLastStreamID = ga.LastStreamID()
		return nil

	case FramePriority, FrameResetStream, FrameHeaders, FrameContinuation, FrameData, FramePushPromise:
		return c.goAwayErr(NewConnError(ProtocolError, frh.Type().String()+" requires a stream id"))

	default:
		return c.goAwayErr(NewConnError(ProtocolError, "invalid connection-level frame"))
	}
}

func (c *Connection) handleSettings(sf *SettingsFrame) error {
	if sf.Ack() {
		c.awaitingSettingsACK = false
		if c.settingsACKTimer != nil {
			c.settingsACKTimer.Stop()
		}
		return nil
	}

	prevInitialWindow := c.remote.InitialWindowSize

	changed, err := c.remote.Apply(sf)
	if err != nil {
		return c.goAwayErr(err)
	}

	for _, id := range changed {
		switch id {
		case SettingHeaderTableSize:
			c.header.SetEncoderMaxDynamicTableSize(c.remote.HeaderTableSize)

		case SettingInitialWindowSize:
			// RFC 7540 §6.9.2: changing the peer's advertised initial
			// window adjusts every existing stream's send window by
			// the delta, not just streams opened afterward.
			delta := int64(c.remote.InitialWindowSize) - int64(prevInitialWindow)
			c.sendMu.Lock()
			c.registry.Each(func(s *Stream) {
				s.remoteWindow += delta
			})
			c.sendMu.Unlock()

		case SettingMaxFrameSize:
			// The peer's SETTINGS_MAX_FRAME_SIZE bounds what we may
			// write to them; it has no effect on what we accept from
			// them, so c.frames (our read-side limit) is untouched.
		}
	}

	ack := AcquireFrame(FrameSettings).(*SettingsFrame)
	ack.SetAck(true)
	frh := AcquireFrameHeader()
	frh.SetBody(ack)
	c.sink.Send(frh)

	return nil
}

func (c *Connection) handlePing(ping *PingFrame) error {
	if ping.Ack() {
		var data [8]byte
		copy(data[:], ping.Data())
		c.events <- Event{Kind: EventPong, PingData: data}
		return nil
	}

	frh := AcquireFrameHeader()
	reply := AcquireFrame(FramePing).(*PingFrame)
	reply.SetData(ping.Data())
	reply.SetAck(true)
	frh.SetBody(reply)
	c.sink.Send(frh)

	return nil
}

func (c *Connection) handleConnWindowUpdate(wu *WindowUpdateFrame) error {
	if wu.Increment() == 0 {
		return c.goAwayErr(NewConnError(ProtocolError, "window increment of 0"))
	}

	c.sendMu.Lock()
	c.sendWindow += int64(wu.Increment())
	overflow := c.sendWindow > maxWindowSize
	c.sendMu.Unlock()

	if overflow {
		return c.goAwayErr(NewConnError(FlowControlError, "connection window overflow"))
	}

	return nil
}

func (c *Connection) dispatchStreamFrame(frh *FrameHeader) error {
	id := frh.Stream()

	if id.IsServerInitiated() {
		return c.goAwayErr(NewConnError(ProtocolError, "client sent a server-initiated stream id"))
	}

	strm := c.registry.Get(id)
	if strm == nil {
		if frh.Type() != FrameHeaders && frh.Type() != FramePriority {
			if c.registry.IsStreamIDRegression(id) {
				return nil // stream already closed and reaped; a late frame, ignore
			}
			return c.goAwayErr(NewConnError(ProtocolError, "frame on unopened stream"))
		}

		if c.registry.IsStreamIDRegression(id) {
			return c.goAwayErr(NewConnError(ProtocolError, "stream id did not increase monotonically"))
		}

		if c.remoteGoingAway && id > c.remoteLastStreamID {
			return c.resetStream(id, RefusedStreamError)
		}

		if c.isClosed() {
			return c.resetStream(id, RefusedStreamError)
		}

		if c.local.MaxConcurrentStreams != nil && uint32(c.registry.openCount) >= *c.local.MaxConcurrentStreams {
			return c.resetStream(id, RefusedStreamError)
		}

		strm = newStream(id, int64(c.local.InitialWindowSize))
		strm.remoteWindow = int64(c.remote.InitialWindowSize)
		c.registry.Insert(strm)
		c.registry.openCount++
	}

	if err := c.verifyStreamState(strm, frh); err != nil {
		return c.handleStreamError(strm, err)
	}

	var err error
	switch frh.Type() {
	case FrameHeaders:
		err = c.handleHeadersOrContinuation(strm, frh)
	case FrameContinuation:
		err = c.handleHeadersOrContinuation(strm, frh)
	case FrameData:
		err = c.handleData(strm, frh)
	case FrameResetStream:
		err = c.handleRstStream(strm, frh)
	case FramePriority:
		err = c.handlePriority(strm, frh)
	case FrameWindowUpdate:
		err = c.handleStreamWindowUpdate(strm, frh)
	default:
		err = NewConnError(ProtocolError, "unexpected frame type on stream")
	}

	if strm.Closed() {
		c.closeStream(strm)
	}

	if err != nil {
		return c.handleStreamError(strm, err)
	}
	return nil
}

func (c *Connection) verifyStreamState(strm *Stream, frh *FrameHeader) error {
	switch strm.State() {
	case StreamIdle:
		if frh.Type() != FrameHeaders && frh.Type() != FramePriority {
			return NewConnError(ProtocolError, "frame type invalid on idle stream")
		}
	case StreamHalfClosedRemote, StreamClosed:
		switch frh.Type() {
		case FrameWindowUpdate, FramePriority, FrameResetStream:
		default:
			return NewStreamError(strm.id, StreamClosedError, "frame on a half-closed/closed stream")
		}
	}
	return nil
}

func (c *Connection) handleHeadersOrContinuation(strm *Stream, frh *FrameHeader) error {
	fwh := frh.Body().(FrameWithHeaders)

	if strm.handle == nil {
		strm.handle = newStreamHandle(c, strm)
	}
	strm.handle.appendHeaderFragment(fwh.HeaderBlockFragment())

	switch h := frh.Body().(type) {
	case *HeadersFrame:
		if strm.State() == StreamIdle {
			strm.SetState(StreamOpen)
		}
		if h.HasPriority() {
			strm.SetPriority(h.StreamDep(), h.Weight(), h.Exclusive())
			if h.StreamDep() == strm.id {
				return NewConnError(ProtocolError, "stream depends on itself")
			}
		}
		strm.handle.EndStream = h.EndStream()
		if h.EndStream() {
			c.transitionHalfClosedRemote(strm)
		}
	case *ContinuationFrame:
		// no additional stream-state transition beyond END_HEADERS handling below
		_ = h
	}

	if !frh.Flags().Has(FlagEndHeaders) {
		c.awaitingContinuation = true
		c.continuationStreamID = strm.id
		return nil
	}
	c.awaitingContinuation = false

	fields, err := c.header.Decode(strm.handle.headerBlock())
	strm.handle.releaseHeaderBlock()
	if err != nil {
		return NewConnError(CompressionError, err.Error())
	}
	strm.handle.Headers = fields

	c.events <- Event{Kind: EventNewStream, Stream: strm.id, Header: strm.handle}

	return nil
}

func (c *Connection) transitionHalfClosedRemote(strm *Stream) {
	switch strm.State() {
	case StreamOpen:
		strm.SetState(StreamHalfClosedRemote)
	case StreamHalfClosedLocal:
		strm.SetState(StreamClosed)
	}
}

func (c *Connection) handleData(strm *Stream, frh *FrameHeader) error {
	data := frh.Body().(*DataFrame)
	n := int64(frh.Len())

	if atomic.AddInt64(&c.recvWindow, -n) < 0 {
		return NewConnError(FlowControlError, "connection receive window exceeded")
	}
	if strm.localWindow -= n; strm.localWindow < 0 {
		return NewStreamError(strm.id, FlowControlError, "stream receive window exceeded")
	}

	if strm.handle == nil {
		return NewConnError(ProtocolError, "data frame before headers")
	}

	if !strm.handle.push(StreamItem{Data: data.Data(), EndStream: data.EndStream()}) {
		return NewStreamError(strm.id, FlowControlError, "stream inbound buffer full, consumer too slow")
	}

	if data.EndStream() {
		c.transitionHalfClosedRemote(strm)
	}

	// Replenish credit once half the window has been consumed, rather
	// than after every frame, trading a little burstiness for far fewer
	// WINDOW_UPDATE frames.
	c.maybeReplenishWindow(strm)

	return nil
}

func (c *Connection) maybeReplenishWindow(strm *Stream) {
	if strm.localWindow < int64(c.local.InitialWindowSize)/2 {
		delta := int64(c.local.InitialWindowSize) - strm.localWindow
		strm.localWindow += delta
		c.sendWindowUpdate(strm.id, int32(delta))
	}

	if atomic.LoadInt64(&c.recvWindow) < int64(c.local.InitialWindowSize)/2 {
		delta := int64(c.local.InitialWindowSize) - atomic.LoadInt64(&c.recvWindow)
		atomic.AddInt64(&c.recvWindow, delta)
		c.sendWindowUpdate(StreamControl, int32(delta))
	}
}

func (c *Connection) sendWindowUpdate(id StreamID, increment int32) {
	frh := AcquireFrameHeader()
	frh.SetStream(id)
	wu := AcquireFrame(FrameWindowUpdate).(*WindowUpdateFrame)
	wu.SetIncrement(increment)
	frh.SetBody(wu)
	c.sink.Send(frh)
}

// sendHeaders encodes fields as a HEADERS frame, spilling into as many
// CONTINUATION frames as the peer's max frame size requires. HPACK
// encoding mutates connection-wide compressor state, so this holds
// sendMu for the whole call rather than per frame, keeping one stream's
// header block from interleaving with another's on the wire.
func (c *Connection) sendHeaders(id StreamID, fields []HeaderField, endStream bool) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	block, err := c.header.Encode(nil, fields)
	if err != nil {
		return err
	}

	max := int(c.remote.MaxFrameSize)
	first := true

	for {
		n := len(block)
		if n > max {
			n = max
		}
		chunk := block[:n]
		block = block[n:]
		last := len(block) == 0

		frh := AcquireFrameHeader()
		frh.SetStream(id)

		if first {
			h := AcquireFrame(FrameHeaders).(*HeadersFrame)
			h.SetEndStream(endStream)
			h.SetEndHeaders(last)
			h.SetHeaderBlockFragment(chunk)
			frh.SetBody(h)
		} else {
			cont := AcquireFrame(FrameContinuation).(*ContinuationFrame)
			cont.SetEndHeaders(last)
			cont.SetHeaderBlockFragment(chunk)
			frh.SetBody(cont)
		}

		c.sink.Send(frh)

		first = false
		if last {
			return nil
		}
	}
}

// sendData chunks data into DATA frames no larger than the peer's
// SETTINGS_MAX_FRAME_SIZE and no larger than the smaller of strm's and
// the connection's available send credit, debiting both windows as it
// goes. It returns ErrFlowControlBlocked, without sending anything
// further, the moment either window has no room for the next byte; the
// caller is expected to retry the remaining data later.
func (c *Connection) sendData(strm *Stream, data []byte, endStream bool) error {
	for {
		c.sendMu.Lock()
		max := int(c.remote.MaxFrameSize)
		avail := int(strm.remoteWindow)
		if cw := int(c.sendWindow); cw < avail {
			avail = cw
		}
		if avail < 0 {
			avail = 0
		}

		n := len(data)
		if n > max {
			n = max
		}
		if n > avail {
			n = avail
		}

		if n == 0 && len(data) > 0 {
			c.sendMu.Unlock()
			return ErrFlowControlBlocked
		}

		chunk := data[:n]
		data = data[n:]
		last := len(data) == 0

		strm.remoteWindow -= int64(n)
		c.sendWindow -= int64(n)
		c.sendMu.Unlock()

		frh := AcquireFrameHeader()
		frh.SetStream(strm.id)
		df := AcquireFrame(FrameData).(*DataFrame)
		df.SetData(chunk)
		df.SetEndStream(endStream && last)
		frh.SetBody(df)
		c.sink.Send(frh)

		if last {
			return nil
		}
	}
}

func (c *Connection) handleRstStream(strm *Stream, frh *FrameHeader) error {
	if strm.State() == StreamIdle {
		return NewConnError(ProtocolError, "RST_STREAM on idle stream")
	}

	rst := frh.Body().(*RstStreamFrame)
	strm.SetState(StreamClosed)

	c.events <- Event{Kind: EventStreamClosed, Stream: strm.id, Err: NewStreamError(strm.id, rst.Code(), "reset by peer")}

	return nil
}

func (c *Connection) handlePriority(strm *Stream, frh *FrameHeader) error {
	pr := frh.Body().(*PriorityFrame)
	if pr.StreamDep() == strm.id {
		return NewConnError(ProtocolError, "stream that depends on itself")
	}
	strm.SetPriority(pr.StreamDep(), pr.Weight(), pr.Exclusive())
	return nil
}

func (c *Connection) handleStreamWindowUpdate(strm *Stream, frh *FrameHeader) error {
	wu := frh.Body().(*WindowUpdateFrame)
	if wu.Increment() == 0 {
		return NewConnError(ProtocolError, "window increment of 0")
	}

	c.sendMu.Lock()
	strm.remoteWindow += int64(wu.Increment())
	overflow := strm.remoteWindow > maxWindowSize
	c.sendMu.Unlock()

	if overflow {
		return NewStreamError(strm.id, FlowControlError, "stream window overflow")
	}

	return nil
}

func (c *Connection) resetStream(id StreamID, code ErrorCode) error {
	frh := AcquireFrameHeader()
	frh.SetStream(id)
	rst := AcquireFrame(FrameResetStream).(*RstStreamFrame)
	rst.SetCode(code)
	frh.SetBody(rst)
	c.sink.Send(frh)
	return nil
}

func (c *Connection) closeStream(strm *Stream) {
	if c.registry.Get(strm.id) != nil {
		c.registry.Delete(strm.id)
		c.registry.openCount--
	}
}

func (c *Connection) handleStreamError(strm *Stream, err error) error {
	e := asHTTP2Error(err)

	if e.Scope == ScopeConnection {
		return c.goAwayErr(e)
	}

	if strm != nil {
		_ = c.resetStream(strm.id, e.Code)
		strm.SetState(StreamClosed)
		c.closeStream(strm)
	}

	return nil
}

func (c *Connection) goAwayErr(err error) error {
	e := asHTTP2Error(err)
	_ = c.goAway(e.Code, e.Message)
	return err
}
