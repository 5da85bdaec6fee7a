package xhttp2

import "sync"

// FrameType identifies the payload shape of a frame, RFC 7540 §6.
type FrameType uint8

const (
	FrameData         FrameType = 0x0
	FrameHeaders      FrameType = 0x1
	FramePriority     FrameType = 0x2
	FrameResetStream  FrameType = 0x3
	FrameSettings     FrameType = 0x4
	FramePushPromise  FrameType = 0x5
	FramePing         FrameType = 0x6
	FrameGoAway       FrameType = 0x7
	FrameWindowUpdate FrameType = 0x8
	FrameContinuation FrameType = 0x9

	minFrameType FrameType = FrameData
	maxFrameType FrameType = FrameContinuation
)

var frameTypeNames = [...]string{
	FrameData:         "DATA",
	FrameHeaders:      "HEADERS",
	FramePriority:     "PRIORITY",
	FrameResetStream:  "RST_STREAM",
	FrameSettings:     "SETTINGS",
	FramePushPromise:  "PUSH_PROMISE",
	FramePing:         "PING",
	FrameGoAway:       "GOAWAY",
	FrameWindowUpdate: "WINDOW_UPDATE",
	FrameContinuation: "CONTINUATION",
}

func (t FrameType) String() string {
	if int(t) < len(frameTypeNames) {
		return frameTypeNames[t]
	}
	return "UNKNOWN_FRAME"
}

// FrameFlags are the 8 flag bits of a frame header. Their meaning is
// frame-type specific; unknown bits MUST be ignored on read and MUST be
// zero on write (RFC 7540 §4.1).
type FrameFlags uint8

const (
	FlagAck        FrameFlags = 0x1 // SETTINGS, PING
	FlagEndStream  FrameFlags = 0x1 // DATA, HEADERS
	FlagEndHeaders FrameFlags = 0x4 // HEADERS, PUSH_PROMISE, CONTINUATION
	FlagPadded     FrameFlags = 0x8 // DATA, HEADERS, PUSH_PROMISE
	FlagPriority   FrameFlags = 0x20 // HEADERS
)

// Has reports whether all bits of f are set in flags.
func (flags FrameFlags) Has(f FrameFlags) bool {
	return flags&f == f
}

// Add returns flags with f set.
func (flags FrameFlags) Add(f FrameFlags) FrameFlags {
	return flags | f
}

// Frame is the payload codec implemented by each of the ten RFC 7540
// frame types. A FrameHeader owns exactly one Frame at a time and
// delegates (de)serialization of the payload to it.
type Frame interface {
	Type() FrameType
	Deserialize(fr *FrameHeader) error
	Serialize(fr *FrameHeader)
}

// resettable frames are returned to their sync.Pool after release.
type resettable interface {
	Reset()
}

var framePools = [...]*sync.Pool{
	FrameData:         {New: func() interface{} { return &DataFrame{} }},
	FrameHeaders:      {New: func() interface{} { return &HeadersFrame{} }},
	FramePriority:     {New: func() interface{} { return &PriorityFrame{} }},
	FrameResetStream:  {New: func() interface{} { return &RstStreamFrame{} }},
	FrameSettings:     {New: func() interface{} { return &SettingsFrame{} }},
	FramePushPromise:  {New: func() interface{} { return &PushPromiseFrame{} }},
	FramePing:         {New: func() interface{} { return &PingFrame{} }},
	FrameGoAway:       {New: func() interface{} { return &GoAwayFrame{} }},
	FrameWindowUpdate: {New: func() interface{} { return &WindowUpdateFrame{} }},
	FrameContinuation: {New: func() interface{} { return &ContinuationFrame{} }},
}

// AcquireFrame returns a pooled, reset Frame of the given type. The
// caller must eventually pass it to ReleaseFrame.
func AcquireFrame(t FrameType) Frame {
	fr := framePools[t].Get().(Frame)
	if r, ok := fr.(resettable); ok {
		r.Reset()
	}
	return fr
}

// ReleaseFrame returns fr to its pool.
func ReleaseFrame(fr Frame) {
	if fr == nil {
		return
	}
	framePools[fr.Type()].Put(fr)
}
