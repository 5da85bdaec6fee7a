package xhttp2

import (
	"bufio"
	"errors"
	"io"
)

// FrameStream is the inbound side of a Connection: it reads and decodes
// one frame at a time, enforcing the locally-negotiated max frame size,
// and hands each decoded frame to onFrame for dispatch.
type FrameStream struct {
	br      *bufio.Reader
	maxSize uint32
}

func newFrameStream(br *bufio.Reader, maxSize uint32) *FrameStream {
	return &FrameStream{br: br, maxSize: maxSize}
}

// SetMaxSize updates the accepted max frame size for frames read after
// the call. Connection sets the limit once, in Accept, from its local
// SETTINGS_MAX_FRAME_SIZE and does not call SetMaxSize.
func (fs *FrameStream) SetMaxSize(n uint32) {
	fs.maxSize = n
}

// Next reads and decodes the next frame. On ErrUnknownFrameType the
// frame's bytes have already been discarded and the caller should simply
// call Next again rather than treat it as fatal, per RFC 7540 §4.1.
func (fs *FrameStream) Next() (*FrameHeader, error) {
	frh, err := ReadFrameFromWithSize(fs.br, fs.maxSize)
	if err != nil {
		return nil, err
	}
	return frh, nil
}

// run reads frames until the stream ends or a fatal error occurs,
// dispatching each to onFrame. Returning nil from onFrame continues the
// loop; a non-nil error (other than io.EOF, which ends the loop
// cleanly) stops it.
func (fs *FrameStream) run(onFrame func(*FrameHeader) error) error {
	for {
		frh, err := fs.Next()
		if err != nil {
			if errors.Is(err, ErrUnknownFrameType) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := onFrame(frh); err != nil {
			return err
		}
	}
}
