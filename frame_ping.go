package xhttp2

var _ Frame = (*PingFrame)(nil)

// PingFrame measures round-trip time and confirms liveness, RFC 7540
// §6.7. The payload is always exactly 8 opaque bytes.
type PingFrame struct {
	ack  bool
	data [8]byte
}

func (ping *PingFrame) Type() FrameType {
	return FramePing
}

func (ping *PingFrame) Reset() {
	ping.ack = false
	ping.data = [8]byte{}
}

func (ping *PingFrame) CopyTo(p *PingFrame) {
	p.ack = ping.ack
	p.data = ping.data
}

func (ping *PingFrame) Ack() bool { return ping.ack }

func (ping *PingFrame) SetAck(v bool) { ping.ack = v }

func (ping *PingFrame) Data() []byte { return ping.data[:] }

func (ping *PingFrame) SetData(b []byte) { copy(ping.data[:], b) }

func (ping *PingFrame) Deserialize(fr *FrameHeader) error {
	if len(fr.payload) < 8 {
		return ErrMissingBytes
	}

	ping.ack = fr.Flags().Has(FlagAck)
	ping.SetData(fr.payload)

	return nil
}

func (ping *PingFrame) Serialize(fr *FrameHeader) {
	if ping.ack {
		fr.SetFlags(fr.Flags().Add(FlagAck))
	}

	fr.setPayload(ping.data[:])
}
