package xhttp2

// Default settings values, RFC 7540 §6.5.2.
const (
	defaultHeaderTableSize      uint32 = 4096
	defaultEnablePush           uint32 = 1
	defaultMaxConcurrentStreams uint32 = 100
	defaultInitialWindowSize    uint32 = 1<<16 - 1
	defaultMaxFrameSize         uint32 = 1 << 14

	maxWindowSize = 1<<31 - 1
	minFrameSize  = 1 << 14
	maxFrameSize  = 1<<24 - 1
)

// Settings is a negotiated snapshot of one endpoint's view of the
// parameters in play, RFC 7540 §6.5. A Connection keeps two: what it
// advertised locally and what the peer most recently advertised.
//
// MaxConcurrentStreams and MaxHeaderListSize are both genuinely optional
// per §6.5.2 ("the sender places no limit"), so they are pointers: nil
// means unset/infinite, distinct from an explicit 0 (which, for
// MaxConcurrentStreams, legitimately means "accept no new streams").
type Settings struct {
	HeaderTableSize      uint32
	EnablePush           bool
	MaxConcurrentStreams *uint32
	InitialWindowSize    uint32
	MaxFrameSize         uint32
	MaxHeaderListSize    *uint32
}

// DefaultSettings returns the RFC 7540 default parameter set. Most
// implementations, this one included, advertise a concrete
// MaxConcurrentStreams rather than leaving it truly unbounded; callers
// that want an unbounded local limit can set the field to nil after
// calling this.
func DefaultSettings() Settings {
	maxStreams := defaultMaxConcurrentStreams
	return Settings{
		HeaderTableSize:      defaultHeaderTableSize,
		EnablePush:           defaultEnablePush != 0,
		MaxConcurrentStreams: &maxStreams,
		InitialWindowSize:    defaultInitialWindowSize,
		MaxFrameSize:         defaultMaxFrameSize,
		MaxHeaderListSize:    nil,
	}
}

// Apply folds the entries of a received SettingsFrame into st, returning
// the list of settings that actually changed value. It validates each
// entry's range per RFC 7540 §6.5.2 and returns a connection error for
// the first violation found, leaving st unmodified for any entry at or
// after the bad one (the caller must treat the whole frame as rejected).
func (st *Settings) Apply(frame *SettingsFrame) ([]SettingID, error) {
	var changed []SettingID

	for _, e := range frame.Entries() {
		switch e.ID {
		case SettingHeaderTableSize:
			if st.HeaderTableSize != e.Value {
				st.HeaderTableSize = e.Value
				changed = append(changed, e.ID)
			}

		case SettingEnablePush:
			if e.Value > 1 {
				return changed, NewConnError(ProtocolError, "SETTINGS_ENABLE_PUSH must be 0 or 1")
			}
			v := e.Value != 0
			if st.EnablePush != v {
				st.EnablePush = v
				changed = append(changed, e.ID)
			}

		case SettingMaxConcurrentStreams:
			v := e.Value
			if st.MaxConcurrentStreams == nil || *st.MaxConcurrentStreams != v {
				st.MaxConcurrentStreams = &v
				changed = append(changed, e.ID)
			}

		case SettingInitialWindowSize:
			if e.Value > maxWindowSize {
				return changed, NewConnError(FlowControlError, "SETTINGS_INITIAL_WINDOW_SIZE exceeds 2^31-1")
			}
			if st.InitialWindowSize != e.Value {
				st.InitialWindowSize = e.Value
				changed = append(changed, e.ID)
			}

		case SettingMaxFrameSize:
			if e.Value < minFrameSize || e.Value > maxFrameSize {
				return changed, NewConnError(ProtocolError, "SETTINGS_MAX_FRAME_SIZE out of range")
			}
			if st.MaxFrameSize != e.Value {
				st.MaxFrameSize = e.Value
				changed = append(changed, e.ID)
			}

		case SettingMaxHeaderListSize:
			v := e.Value
			if st.MaxHeaderListSize == nil || *st.MaxHeaderListSize != v {
				st.MaxHeaderListSize = &v
				changed = append(changed, e.ID)
			}

		default:
			// Unknown settings identifiers are ignored, RFC 7540 §6.5.2.
		}
	}

	return changed, nil
}

// ToFrame renders st as a complete SettingsFrame, suitable for the
// initial connection handshake.
func (st *Settings) ToFrame() *SettingsFrame {
	sf := &SettingsFrame{}
	sf.Add(SettingHeaderTableSize, st.HeaderTableSize)
	if !st.EnablePush {
		sf.Add(SettingEnablePush, 0)
	}
	if st.MaxConcurrentStreams != nil {
		sf.Add(SettingMaxConcurrentStreams, *st.MaxConcurrentStreams)
	}
	sf.Add(SettingInitialWindowSize, st.InitialWindowSize)
	sf.Add(SettingMaxFrameSize, st.MaxFrameSize)
	if st.MaxHeaderListSize != nil {
		sf.Add(SettingMaxHeaderListSize, *st.MaxHeaderListSize)
	}
	return sf
}
