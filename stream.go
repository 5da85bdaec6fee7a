package xhttp2

// StreamState is one of the seven states of the RFC 7540 §5.1 stream
// lifecycle. Collapsing ReservedLocal/ReservedRemote or
// HalfClosedLocal/HalfClosedRemote into single states would lose which
// side closed first, which this module needs to decide whether a
// received frame is a protocol error.
type StreamState int8

const (
	StreamIdle StreamState = iota
	StreamReservedLocal
	StreamReservedRemote
	StreamOpen
	StreamHalfClosedLocal
	StreamHalfClosedRemote
	StreamClosed
)

func (ss StreamState) String() string {
	switch ss {
	case StreamIdle:
		return "Idle"
	case StreamReservedLocal:
		return "ReservedLocal"
	case StreamReservedRemote:
		return "ReservedRemote"
	case StreamOpen:
		return "Open"
	case StreamHalfClosedLocal:
		return "HalfClosedLocal"
	case StreamHalfClosedRemote:
		return "HalfClosedRemote"
	case StreamClosed:
		return "Closed"
	}
	return "Unknown"
}

// Stream is one multiplexed stream's bookkeeping: its lifecycle state,
// its two flow-control windows, and the priority fields reported about
// it by the peer.
type Stream struct {
	id    StreamID
	state StreamState

	// localWindow is this endpoint's receive budget: how much more DATA
	// the peer may send on this stream before it needs replenishing via
	// WINDOW_UPDATE. remoteWindow is the send credit the peer has
	// granted this endpoint in the other direction.
	localWindow  int64
	remoteWindow int64

	weight    byte
	streamDep StreamID
	exclusive bool

	handle *StreamHandle
}

// newStream creates a stream in the Idle state with win as both
// directions' initial flow-control window.
func newStream(id StreamID, win int64) *Stream {
	return &Stream{
		id:           id,
		state:        StreamIdle,
		localWindow:  win,
		remoteWindow: win,
		weight:       15, // wire encoding (weight-1) of RFC 7540 §5.3.5's default weight 16
	}
}

func (s *Stream) ID() StreamID { return s.id }

func (s *Stream) State() StreamState { return s.state }

func (s *Stream) SetState(state StreamState) { s.state = state }

// LocalWindow is how much more DATA the peer may still send on this
// stream before this endpoint must grant more credit.
func (s *Stream) LocalWindow() int64 { return s.localWindow }

func (s *Stream) IncrLocalWindow(delta int64) { s.localWindow += delta }

func (s *Stream) SetLocalWindow(win int64) { s.localWindow = win }

// RemoteWindow is how much credit the peer has granted this endpoint to
// send.
func (s *Stream) RemoteWindow() int64 { return s.remoteWindow }

func (s *Stream) IncrRemoteWindow(delta int64) { s.remoteWindow += delta }

func (s *Stream) SetRemoteWindow(win int64) { s.remoteWindow = win }

// Closed reports whether no further frames may legally be exchanged on
// this stream.
func (s *Stream) Closed() bool { return s.state == StreamClosed }

// HalfClosed reports whether this stream can no longer send (if
// HalfClosedLocal) or receive (if HalfClosedRemote) DATA/HEADERS.
func (s *Stream) HalfClosed() bool {
	return s.state == StreamHalfClosedLocal || s.state == StreamHalfClosedRemote
}

func (s *Stream) SetPriority(dep StreamID, weight byte, exclusive bool) {
	s.streamDep = dep
	s.weight = weight
	s.exclusive = exclusive
}

func (s *Stream) Weight() byte { return s.weight }

func (s *Stream) StreamDep() StreamID { return s.streamDep }

func (s *Stream) Exclusive() bool { return s.exclusive }
