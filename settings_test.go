package xhttp2

import "testing"

func TestDefaultSettings(t *testing.T) {
	st := DefaultSettings()

	if st.HeaderTableSize != 4096 {
		t.Fatalf("unexpected default header table size: %d", st.HeaderTableSize)
	}
	if !st.EnablePush {
		t.Fatal("expected push to be enabled by default")
	}
	if st.InitialWindowSize != 1<<16-1 {
		t.Fatalf("unexpected default initial window size: %d", st.InitialWindowSize)
	}
	if st.MaxFrameSize != 1<<14 {
		t.Fatalf("unexpected default max frame size: %d", st.MaxFrameSize)
	}
}

func TestSettingsApplyTracksChanges(t *testing.T) {
	st := DefaultSettings()

	f := &SettingsFrame{}
	f.Add(SettingHeaderTableSize, 8192)
	f.Add(SettingMaxConcurrentStreams, *st.MaxConcurrentStreams) // unchanged

	changed, err := st.Apply(f)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(changed) != 1 || changed[0] != SettingHeaderTableSize {
		t.Fatalf("expected only HeaderTableSize reported changed, got %v", changed)
	}
	if st.HeaderTableSize != 8192 {
		t.Fatalf("HeaderTableSize not applied: %d", st.HeaderTableSize)
	}
}

func TestSettingsApplyRejectsBadEnablePush(t *testing.T) {
	st := DefaultSettings()

	f := &SettingsFrame{}
	f.Add(SettingEnablePush, 2)

	_, err := st.Apply(f)
	herr, ok := err.(Error)
	if !ok {
		t.Fatalf("expected an Error, got %T: %v", err, err)
	}
	if herr.Code != ProtocolError {
		t.Fatalf("expected ProtocolError, got %s", herr.Code)
	}
}

func TestSettingsApplyRejectsOversizedInitialWindow(t *testing.T) {
	st := DefaultSettings()

	f := &SettingsFrame{}
	f.Add(SettingInitialWindowSize, maxWindowSize+1)

	_, err := st.Apply(f)
	herr, ok := err.(Error)
	if !ok {
		t.Fatalf("expected an Error, got %T: %v", err, err)
	}
	if herr.Code != FlowControlError {
		t.Fatalf("expected FlowControlError, got %s", herr.Code)
	}
}

func TestSettingsApplyRejectsFrameSizeOutOfRange(t *testing.T) {
	st := DefaultSettings()

	tooSmall := &SettingsFrame{}
	tooSmall.Add(SettingMaxFrameSize, minFrameSize-1)
	if _, err := st.Apply(tooSmall); err == nil {
		t.Fatal("expected an error for a too-small max frame size")
	}

	tooBig := &SettingsFrame{}
	tooBig.Add(SettingMaxFrameSize, maxFrameSize+1)
	if _, err := st.Apply(tooBig); err == nil {
		t.Fatal("expected an error for a too-large max frame size")
	}
}

func TestSettingsApplyIgnoresUnknownID(t *testing.T) {
	st := DefaultSettings()
	before := st

	f := &SettingsFrame{}
	f.Add(SettingID(0xff), 123)

	changed, err := st.Apply(f)
	if err != nil {
		t.Fatalf("unexpected error for unknown setting id: %s", err)
	}
	if len(changed) != 0 {
		t.Fatalf("expected no changes for an unknown setting id, got %v", changed)
	}
	if st != before {
		t.Fatal("expected settings to be untouched by an unknown id")
	}
}

func TestSettingsToFrameRoundTrip(t *testing.T) {
	st := DefaultSettings()
	st.HeaderTableSize = 2048
	maxStreams := uint32(10)
	st.MaxConcurrentStreams = &maxStreams

	sf := st.ToFrame()

	var applied Settings
	if _, err := applied.Apply(sf); err != nil {
		t.Fatalf("unexpected error applying rendered frame: %s", err)
	}

	if applied.HeaderTableSize != 2048 {
		t.Fatalf("HeaderTableSize lost in round trip: %d", applied.HeaderTableSize)
	}
	if applied.MaxConcurrentStreams == nil || *applied.MaxConcurrentStreams != 10 {
		t.Fatalf("MaxConcurrentStreams lost in round trip: %v", applied.MaxConcurrentStreams)
	}
	if applied.InitialWindowSize != st.InitialWindowSize {
		t.Fatalf("InitialWindowSize lost in round trip: %d", applied.InitialWindowSize)
	}
}

func TestSettingsMaxConcurrentStreamsUnsetMeansUnlimited(t *testing.T) {
	st := DefaultSettings()
	st.MaxConcurrentStreams = nil

	sf := st.ToFrame()
	for _, e := range sf.Entries() {
		if e.ID == SettingMaxConcurrentStreams {
			t.Fatal("expected no MAX_CONCURRENT_STREAMS entry when unset")
		}
	}

	var applied Settings
	if _, err := applied.Apply(sf); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if applied.MaxConcurrentStreams != nil {
		t.Fatalf("expected MaxConcurrentStreams to remain unset, got %v", *applied.MaxConcurrentStreams)
	}
}
