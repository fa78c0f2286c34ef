// Package frame turns a stream of bytes from a connection into a
// sequence of decoded RESP3 command frames, one at a time, without
// copying the token bytes out of the read buffer.
package frame

import (
	"io"

	"github.com/mickamy/memds/resp3"
)

const (
	initialBufSize = 4096
	// compactThreshold bounds how much discarded prefix we tolerate
	// before paying to memmove the live window down to offset 0.
	compactThreshold = 64 * 1024
)

// Frame is one decoded client command: the RESP3 array's bulk-string
// elements, borrowed from the Reader's internal buffer. A Frame is
// only valid until the next call to ReadMore or NextFrame on the
// Reader that produced it — the same contract bufio.Scanner.Bytes
// documents for its returned token.
type Frame struct {
	Tokens [][]byte
}

// Reader reads RESP3 command frames out of an underlying io.Reader.
type Reader struct {
	r    io.Reader
	buf  []byte
	end  int // buf[:end] holds buffered (not-yet-consumed) bytes
	pos  int // offset of the next frame to try to decode
	last int // bytes consumed by the last returned frame, not yet discarded
}

// New returns a Reader with an empty 4KB buffer, matching the
// frame-reader's initial (buffer, last_frame_bytes_consumed) state.
func New(r io.Reader) *Reader {
	return &Reader{r: r, buf: make([]byte, initialBufSize)}
}

// ReadMore reads once from the underlying reader, appending to the
// buffer, and returns the number of bytes read (0 means EOF).
func (r *Reader) ReadMore() (int, error) {
	r.ensureSpace()
	n, err := r.r.Read(r.buf[r.end:])
	r.end += n
	if err == io.EOF {
		return n, nil
	}
	return n, err
}

// NextFrame discards the bytes consumed by the previously returned
// frame (deferred until now so callers can freely use its borrowed
// token slices up to this call) and attempts to decode the next
// frame from the buffered window.
//
// It returns (nil, nil) when the buffer doesn't yet hold a complete
// frame — the caller should call ReadMore and retry. A non-nil error
// means the buffered bytes are malformed and the session must end.
func (r *Reader) NextFrame() (*Frame, error) {
	r.pos += r.last
	r.last = 0

	tokens, n, err := resp3.DecodeCommand(r.buf[r.pos:r.end])
	if err == resp3.ErrIncomplete {
		r.compact()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.last = n
	return &Frame{Tokens: tokens}, nil
}

// compact reclaims the discarded prefix buf[:pos] once it grows past
// compactThreshold, or resets the buffer entirely once everything in
// it has been consumed, so a long-lived pipelined connection doesn't
// grow its buffer without bound.
func (r *Reader) compact() {
	if r.pos == r.end {
		r.pos, r.end = 0, 0
		return
	}
	if r.pos < compactThreshold {
		return
	}
	n := copy(r.buf, r.buf[r.pos:r.end])
	r.end = n
	r.pos = 0
}

// ensureSpace grows buf so there is room to read into past end,
// compacting the discarded prefix first if that alone makes room.
func (r *Reader) ensureSpace() {
	if r.end < len(r.buf) {
		return
	}
	if r.pos > 0 {
		n := copy(r.buf, r.buf[r.pos:r.end])
		r.end = n
		r.pos = 0
		if r.end < len(r.buf) {
			return
		}
	}
	grown := make([]byte, len(r.buf)*2)
	copy(grown, r.buf[:r.end])
	r.buf = grown
}
