package xhttp2

import (
	"bufio"
	"runtime/debug"
)

// FrameSink is the single-writer outbound queue for a Connection. Every
// frame leaving the connection, regardless of which goroutine produced
// it, is handed to a FrameSink so writes to the underlying bufio.Writer
// never need their own lock.
type FrameSink struct {
	out    chan *FrameHeader
	bw     *bufio.Writer
	logger Logger
}

func newFrameSink(bw *bufio.Writer, logger Logger) *FrameSink {
	return &FrameSink{
		out:    make(chan *FrameHeader, 16),
		bw:     bw,
		logger: logger,
	}
}

// Send enqueues fr for writing. It blocks if the sink's buffer is full,
// which only happens if the peer has stopped reading entirely.
func (s *FrameSink) Send(fr *FrameHeader) {
	s.out <- fr
}

// Close signals that no more frames will be sent. The write loop exits
// once the queue drains.
func (s *FrameSink) Close() {
	close(s.out)
}

// run drains the queue onto bw until closed or a write fails, flushing
// either when the queue is momentarily empty or once 12 frames have been
// written since the last flush, whichever comes first, to batch small frames without ever
// starving an idle queue of a flush.
func (s *FrameSink) run() error {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("xhttp2: frame sink panicked: %v\n%s\n", r, debug.Stack())
		}
	}()

	buffered := 0

	for fr := range s.out {
		_, err := fr.WriteTo(s.bw)
		ReleaseFrameHeader(fr)

		if err != nil {
			return err
		}

		if len(s.out) == 0 || buffered > 10 {
			if err := s.bw.Flush(); err != nil {
				return err
			}
			buffered = 0
		} else {
			buffered++
		}
	}

	return s.bw.Flush()
}
