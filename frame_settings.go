package xhttp2

import (
	"errors"

	"github.com/sile/xhttp2/http2utils"
)

var _ Frame = (*SettingsFrame)(nil)

// ErrSettingsAckPayload is returned when a SETTINGS frame carries the ACK
// flag alongside a nonempty payload, which RFC 7540 §6.5 forbids.
var ErrSettingsAckPayload = errors.New("xhttp2: SETTINGS ACK must have an empty payload")

// SettingID names one entry of a SETTINGS frame, RFC 7540 §6.5.2.
type SettingID uint16

const (
	SettingHeaderTableSize      SettingID = 0x1
	SettingEnablePush           SettingID = 0x2
	SettingMaxConcurrentStreams SettingID = 0x3
	SettingInitialWindowSize    SettingID = 0x4
	SettingMaxFrameSize         SettingID = 0x5
	SettingMaxHeaderListSize    SettingID = 0x6
)

// settingEntrySize is the wire size of one key/value pair: a 16-bit id
// plus a 32-bit value.
const settingEntrySize = 6

// SettingEntry is one key/value pair inside a SettingsFrame.
type SettingEntry struct {
	ID    SettingID
	Value uint32
}

// SettingsFrame communicates configuration parameters, RFC 7540 §6.5. An
// empty SettingsFrame with the ACK flag set acknowledges a previous
// SETTINGS frame.
type SettingsFrame struct {
	ack     bool
	entries []SettingEntry
}

func (s *SettingsFrame) Type() FrameType {
	return FrameSettings
}

func (s *SettingsFrame) Reset() {
	s.ack = false
	s.entries = s.entries[:0]
}

func (s *SettingsFrame) CopyTo(o *SettingsFrame) {
	o.ack = s.ack
	o.entries = append(o.entries[:0], s.entries...)
}

func (s *SettingsFrame) Ack() bool { return s.ack }

func (s *SettingsFrame) SetAck(v bool) { s.ack = v }

// Entries returns the decoded key/value pairs, in wire order.
func (s *SettingsFrame) Entries() []SettingEntry { return s.entries }

// Add appends a key/value pair to be written on Serialize.
func (s *SettingsFrame) Add(id SettingID, value uint32) {
	s.entries = append(s.entries, SettingEntry{ID: id, Value: value})
}

func (s *SettingsFrame) Deserialize(fr *FrameHeader) error {
	s.ack = fr.Flags().Has(FlagAck)

	if s.ack {
		if len(fr.payload) != 0 {
			return ErrSettingsAckPayload
		}
		return nil
	}

	payload := fr.payload
	if len(payload)%settingEntrySize != 0 {
		return ErrMissingBytes
	}

	s.entries = s.entries[:0]
	for i := 0; i+settingEntrySize <= len(payload); i += settingEntrySize {
		b := payload[i : i+settingEntrySize]
		id := SettingID(uint16(b[0])<<8 | uint16(b[1]))
		value := http2utils.BytesToUint32(b[2:])
		s.entries = append(s.entries, SettingEntry{ID: id, Value: value})
	}

	return nil
}

func (s *SettingsFrame) Serialize(fr *FrameHeader) {
	if s.ack {
		fr.SetFlags(fr.Flags().Add(FlagAck))
		fr.payload = fr.payload[:0]
		return
	}

	payload := fr.payload[:0]
	for _, e := range s.entries {
		payload = append(payload, byte(e.ID>>8), byte(e.ID))
		payload = http2utils.AppendUint32Bytes(payload, e.Value)
	}
	fr.payload = payload
}
