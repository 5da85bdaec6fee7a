package xhttp2

import (
	"github.com/sile/xhttp2/http2utils"
)

var _ Frame = (*PriorityFrame)(nil)

// PriorityFrame carries a stream's dependency and weight, RFC 7540 §6.3.
// This module stores priority as a flat advisory fact per stream rather
// than maintaining the dependency tree RFC 7540 describes, which §5.3
// explicitly allows a receiver to do.
type PriorityFrame struct {
	streamDep StreamID
	exclusive bool
	weight    byte
}

func (pry *PriorityFrame) Type() FrameType {
	return FramePriority
}

func (pry *PriorityFrame) Reset() {
	pry.streamDep = 0
	pry.exclusive = false
	pry.weight = 0
}

func (pry *PriorityFrame) CopyTo(p *PriorityFrame) {
	p.streamDep = pry.streamDep
	p.exclusive = pry.exclusive
	p.weight = pry.weight
}

// StreamDep returns the stream this frame's stream depends on.
func (pry *PriorityFrame) StreamDep() StreamID { return pry.streamDep }

// SetStreamDep sets the dependency's stream id.
func (pry *PriorityFrame) SetStreamDep(stream StreamID) {
	pry.streamDep = StreamID(mask31(uint32(stream)))
}

// Exclusive reports whether the dependency is exclusive.
func (pry *PriorityFrame) Exclusive() bool { return pry.exclusive }

func (pry *PriorityFrame) SetExclusive(v bool) { pry.exclusive = v }

// Weight returns the stream's weight, 0-255 (representing 1-256 per RFC).
func (pry *PriorityFrame) Weight() byte { return pry.weight }

func (pry *PriorityFrame) SetWeight(w byte) { pry.weight = w }

func (pry *PriorityFrame) Deserialize(fr *FrameHeader) error {
	if len(fr.payload) < 5 {
		return ErrMissingBytes
	}

	raw := http2utils.BytesToUint32(fr.payload)
	pry.exclusive = raw&0x80000000 != 0
	pry.streamDep = StreamID(mask31(raw))
	pry.weight = fr.payload[4]

	return nil
}

func (pry *PriorityFrame) Serialize(fr *FrameHeader) {
	raw := uint32(pry.streamDep)
	if pry.exclusive {
		raw |= 0x80000000
	}

	fr.payload = http2utils.AppendUint32Bytes(fr.payload[:0], raw)
	fr.payload = append(fr.payload, pry.weight)
}
