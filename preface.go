package xhttp2

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// clientPreface is the fixed 24-octet sequence every HTTP/2 connection
// begins with, RFC 7540 §3.5.
var clientPreface = []byte("PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n")

// ErrBadPreface is returned by ReadPreface when the peer's opening bytes
// don't match the expected connection preface.
var ErrBadPreface = errors.New("xhttp2: invalid connection preface")

// WritePreface writes the client connection preface to bw. Servers never
// call this; only the client side of a connection sends it.
func WritePreface(bw *bufio.Writer) error {
	_, err := bw.Write(clientPreface)
	return err
}

// ReadPreface reads and validates the connection preface from br. Only
// the server side of a connection calls this.
func ReadPreface(br *bufio.Reader) error {
	b := make([]byte, len(clientPreface))
	if _, err := io.ReadFull(br, b); err != nil {
		return err
	}
	if !bytes.Equal(b, clientPreface) {
		return ErrBadPreface
	}
	return nil
}
