package xhttp2

import (
	"bufio"
	"bytes"
	"testing"
)

// roundTrip serializes fr through a FrameHeader and decodes it back,
// returning the freshly-decoded Frame of the same concrete type.
func roundTrip(t *testing.T, stream StreamID, fr Frame) Frame {
	t.Helper()

	wfrh := AcquireFrameHeader()
	defer ReleaseFrameHeader(wfrh)
	wfrh.SetStream(stream)
	wfrh.SetBody(fr)

	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if _, err := wfrh.WriteTo(bw); err != nil {
		t.Fatalf("WriteTo: %s", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("flush: %s", err)
	}

	br := bufio.NewReader(&buf)
	rfrh, err := ReadFrameFrom(br)
	if err != nil {
		t.Fatalf("ReadFrameFrom: %s", err)
	}
	defer ReleaseFrameHeader(rfrh)

	if rfrh.Stream() != stream {
		t.Fatalf("stream id mismatch: got %d want %d", rfrh.Stream(), stream)
	}
	if rfrh.Type() != fr.Type() {
		t.Fatalf("frame type mismatch: got %s want %s", rfrh.Type(), fr.Type())
	}

	return rfrh.Body()
}

func TestDataFrameRoundTrip(t *testing.T) {
	d := AcquireFrame(FrameData).(*DataFrame)
	d.SetData([]byte("hello, h2"))
	d.SetEndStream(true)

	out := roundTrip(t, 3, d).(*DataFrame)
	if string(out.Data()) != "hello, h2" {
		t.Fatalf("data mismatch: %q", out.Data())
	}
	if !out.EndStream() {
		t.Fatal("expected END_STREAM to survive round trip")
	}
}

func TestDataFramePadding(t *testing.T) {
	d := AcquireFrame(FrameData).(*DataFrame)
	d.SetData([]byte("padded payload"))
	d.SetPadded(true)

	out := roundTrip(t, 5, d).(*DataFrame)
	if string(out.Data()) != "padded payload" {
		t.Fatalf("data mismatch after padding round trip: %q", out.Data())
	}
}

func TestHeadersFrameRoundTrip(t *testing.T) {
	h := AcquireFrame(FrameHeaders).(*HeadersFrame)
	h.SetHeaderBlockFragment([]byte("fake-hpack-bytes"))
	h.SetEndHeaders(true)
	h.SetEndStream(false)
	h.SetWeight(200)
	h.SetStreamDep(1)
	h.SetExclusive(true)

	out := roundTrip(t, 1, h).(*HeadersFrame)
	if !bytes.Equal(out.HeaderBlockFragment(), []byte("fake-hpack-bytes")) {
		t.Fatalf("header block mismatch: %q", out.HeaderBlockFragment())
	}
	if !out.HasPriority() {
		t.Fatal("expected priority fields to round-trip")
	}
	if out.Weight() != 200 || out.StreamDep() != 1 || !out.Exclusive() {
		t.Fatalf("priority fields mismatch: weight=%d dep=%d excl=%v", out.Weight(), out.StreamDep(), out.Exclusive())
	}
	if !out.EndHeaders() || out.EndStream() {
		t.Fatalf("flag mismatch: endHeaders=%v endStream=%v", out.EndHeaders(), out.EndStream())
	}
}

func TestHeadersFramePaddedWithPriority(t *testing.T) {
	h := AcquireFrame(FrameHeaders).(*HeadersFrame)
	h.SetHeaderBlockFragment([]byte("another-block"))
	h.SetEndHeaders(true)
	h.SetPadded(true)
	h.SetWeight(15)
	h.SetStreamDep(42)

	out := roundTrip(t, 9, h).(*HeadersFrame)
	if !bytes.Equal(out.HeaderBlockFragment(), []byte("another-block")) {
		t.Fatalf("header block mismatch with padding+priority: %q", out.HeaderBlockFragment())
	}
	if out.StreamDep() != 42 || out.Weight() != 15 {
		t.Fatalf("priority fields mismatch: dep=%d weight=%d", out.StreamDep(), out.Weight())
	}
}

func TestPriorityFrameRoundTrip(t *testing.T) {
	p := AcquireFrame(FramePriority).(*PriorityFrame)
	p.SetStreamDep(7)
	p.SetWeight(99)
	p.SetExclusive(true)

	out := roundTrip(t, 3, p).(*PriorityFrame)
	if out.StreamDep() != 7 || out.Weight() != 99 || !out.Exclusive() {
		t.Fatalf("mismatch: dep=%d weight=%d excl=%v", out.StreamDep(), out.Weight(), out.Exclusive())
	}
}

func TestRstStreamFrameRoundTrip(t *testing.T) {
	r := AcquireFrame(FrameResetStream).(*RstStreamFrame)
	r.SetCode(CancelError)

	out := roundTrip(t, 3, r).(*RstStreamFrame)
	if out.Code() != CancelError {
		t.Fatalf("code mismatch: %s", out.Code())
	}
}

func TestSettingsFrameRoundTrip(t *testing.T) {
	s := AcquireFrame(FrameSettings).(*SettingsFrame)
	s.Add(SettingInitialWindowSize, 1<<20)
	s.Add(SettingMaxConcurrentStreams, 50)

	out := roundTrip(t, 0, s).(*SettingsFrame)
	entries := out.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != SettingInitialWindowSize || entries[0].Value != 1<<20 {
		t.Fatalf("entry 0 mismatch: %+v", entries[0])
	}
	if entries[1].ID != SettingMaxConcurrentStreams || entries[1].Value != 50 {
		t.Fatalf("entry 1 mismatch: %+v", entries[1])
	}
}

func TestSettingsFrameAck(t *testing.T) {
	s := AcquireFrame(FrameSettings).(*SettingsFrame)
	s.SetAck(true)

	out := roundTrip(t, 0, s).(*SettingsFrame)
	if !out.Ack() {
		t.Fatal("expected ACK flag to survive round trip")
	}
	if len(out.Entries()) != 0 {
		t.Fatalf("ACK frame should carry no entries, got %d", len(out.Entries()))
	}
}

func TestPushPromiseFrameRoundTrip(t *testing.T) {
	pp := AcquireFrame(FramePushPromise).(*PushPromiseFrame)
	pp.SetPromisedStreamID(4)
	pp.SetHeaderBlockFragment([]byte("promise-headers"))
	pp.SetEndHeaders(true)

	out := roundTrip(t, 1, pp).(*PushPromiseFrame)
	if out.PromisedStreamID() != 4 {
		t.Fatalf("promised id mismatch: %d", out.PromisedStreamID())
	}
	if !bytes.Equal(out.HeaderBlockFragment(), []byte("promise-headers")) {
		t.Fatalf("header block mismatch: %q", out.HeaderBlockFragment())
	}
}

func TestPushPromiseFramePadded(t *testing.T) {
	pp := AcquireFrame(FramePushPromise).(*PushPromiseFrame)
	pp.SetPromisedStreamID(6)
	pp.SetHeaderBlockFragment([]byte("padded-promise"))
	pp.SetPadded(true)

	out := roundTrip(t, 1, pp).(*PushPromiseFrame)
	if out.PromisedStreamID() != 6 {
		t.Fatalf("promised id mismatch with padding: %d", out.PromisedStreamID())
	}
	if !bytes.Equal(out.HeaderBlockFragment(), []byte("padded-promise")) {
		t.Fatalf("header block mismatch with padding: %q", out.HeaderBlockFragment())
	}
}

func TestPingFrameRoundTrip(t *testing.T) {
	p := AcquireFrame(FramePing).(*PingFrame)
	p.SetData([]byte("12345678"))
	p.SetAck(true)

	out := roundTrip(t, 0, p).(*PingFrame)
	if string(out.Data()) != "12345678" {
		t.Fatalf("ping data mismatch: %q", out.Data())
	}
	if !out.Ack() {
		t.Fatal("expected ACK flag to survive round trip")
	}
}

func TestGoAwayFrameRoundTrip(t *testing.T) {
	g := AcquireFrame(FrameGoAway).(*GoAwayFrame)
	g.SetLastStreamID(11)
	g.SetCode(ProtocolError)
	g.SetData([]byte("debug info"))

	out := roundTrip(t, 0, g).(*GoAwayFrame)
	if out.LastStreamID() != 11 {
		t.Fatalf("last stream id mismatch: %d", out.LastStreamID())
	}
	if out.Code() != ProtocolError {
		t.Fatalf("code mismatch: %s", out.Code())
	}
	if string(out.Data()) != "debug info" {
		t.Fatalf("debug data mismatch: %q", out.Data())
	}
}

func TestWindowUpdateFrameRoundTrip(t *testing.T) {
	w := AcquireFrame(FrameWindowUpdate).(*WindowUpdateFrame)
	w.SetIncrement(65535)

	out := roundTrip(t, 5, w).(*WindowUpdateFrame)
	if out.Increment() != 65535 {
		t.Fatalf("increment mismatch: %d", out.Increment())
	}
}

func TestContinuationFrameRoundTrip(t *testing.T) {
	c := AcquireFrame(FrameContinuation).(*ContinuationFrame)
	c.SetHeaderBlockFragment([]byte("continued-headers"))
	c.SetEndHeaders(true)

	out := roundTrip(t, 1, c).(*ContinuationFrame)
	if !bytes.Equal(out.HeaderBlockFragment(), []byte("continued-headers")) {
		t.Fatalf("header block mismatch: %q", out.HeaderBlockFragment())
	}
	if !out.EndHeaders() {
		t.Fatal("expected END_HEADERS to survive round trip")
	}
}

func TestReadFromRejectsOversizedFrame(t *testing.T) {
	d := AcquireFrame(FrameData).(*DataFrame)
	d.SetData(make([]byte, 100))

	wfrh := AcquireFrameHeader()
	wfrh.SetBody(d)
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if _, err := wfrh.WriteTo(bw); err != nil {
		t.Fatalf("WriteTo: %s", err)
	}
	bw.Flush()
	ReleaseFrameHeader(wfrh)

	br := bufio.NewReader(&buf)
	_, err := ReadFrameFromWithSize(br, 10)
	if err != ErrPayloadExceeds {
		t.Fatalf("expected ErrPayloadExceeds, got %v", err)
	}
}

func TestReadFromSkipsUnknownFrameType(t *testing.T) {
	var h [9]byte
	// 5 bytes of payload, type 0x42 (unassigned), stream 0.
	h[0], h[1], h[2] = 0, 0, 5
	h[3] = 0x42

	var buf bytes.Buffer
	buf.Write(h[:])
	buf.Write([]byte("xxxxx"))

	br := bufio.NewReader(&buf)
	_, err := ReadFrameFrom(br)
	if err != ErrUnknownFrameType {
		t.Fatalf("expected ErrUnknownFrameType, got %v", err)
	}
}

func TestFrameTypeString(t *testing.T) {
	if FrameData.String() != "DATA" {
		t.Fatalf("unexpected name: %s", FrameData.String())
	}
	if FrameType(0x42).String() != "UNKNOWN_FRAME" {
		t.Fatalf("unexpected name for unassigned type: %s", FrameType(0x42).String())
	}
}

func TestFrameFlagsHasAdd(t *testing.T) {
	var f FrameFlags
	f = f.Add(FlagEndHeaders)
	if !f.Has(FlagEndHeaders) {
		t.Fatal("expected FlagEndHeaders to be set")
	}
	if f.Has(FlagPadded) {
		t.Fatal("did not expect FlagPadded to be set")
	}
}
