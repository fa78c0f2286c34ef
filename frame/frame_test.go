package frame_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/mickamy/memds/frame"
)

func TestNextFramePartialAcrossReads(t *testing.T) {
	t.Parallel()
	pr, pw := io.Pipe()
	r := frame.New(pr)

	full := []byte("*1\r\n$4\r\nPING\r\n")
	go func() {
		_, _ = pw.Write(full[:5])
		_, _ = pw.Write(full[5:])
		_ = pw.Close()
	}()

	if _, err := r.ReadMore(); err != nil {
		t.Fatalf("read 1: %v", err)
	}
	fr, err := r.NextFrame()
	if err != nil {
		t.Fatalf("next frame: %v", err)
	}
	if fr != nil {
		t.Fatalf("expected incomplete frame, got %v", fr)
	}

	if _, err := r.ReadMore(); err != nil {
		t.Fatalf("read 2: %v", err)
	}
	fr, err = r.NextFrame()
	if err != nil {
		t.Fatalf("next frame 2: %v", err)
	}
	if fr == nil || len(fr.Tokens) != 1 || string(fr.Tokens[0]) != "PING" {
		t.Fatalf("got %v", fr)
	}
}

func TestNextFramePipelinedInOneRead(t *testing.T) {
	t.Parallel()
	buf := bytes.NewBufferString("*1\r\n$4\r\nPING\r\n*1\r\n$4\r\nPING\r\n")
	r := frame.New(buf)

	if _, err := r.ReadMore(); err != nil {
		t.Fatalf("read: %v", err)
	}

	var frames []*frame.Frame
	for {
		fr, err := r.NextFrame()
		if err != nil {
			t.Fatalf("next frame: %v", err)
		}
		if fr == nil {
			break
		}
		frames = append(frames, fr)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	for _, fr := range frames {
		if string(fr.Tokens[0]) != "PING" {
			t.Fatalf("got %q", fr.Tokens)
		}
	}
}

func TestReadMoreEOF(t *testing.T) {
	t.Parallel()
	r := frame.New(bytes.NewReader(nil))
	n, err := r.ReadMore()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("got %d, want 0", n)
	}
}

func TestNextFrameDeferredAdvance(t *testing.T) {
	t.Parallel()
	buf := bytes.NewBufferString("*1\r\n$4\r\nPING\r\n")
	r := frame.New(buf)
	if _, err := r.ReadMore(); err != nil {
		t.Fatalf("read: %v", err)
	}

	fr, err := r.NextFrame()
	if err != nil || fr == nil {
		t.Fatalf("next frame: %v, %v", fr, err)
	}
	borrowed := fr.Tokens[0]
	if string(borrowed) != "PING" {
		t.Fatalf("got %q", borrowed)
	}

	// The borrowed slice must still read correctly right up until the
	// next NextFrame call, even though no more bytes are buffered.
	if string(borrowed) != "PING" {
		t.Fatalf("borrowed slice mutated before next call: %q", borrowed)
	}

	fr2, err := r.NextFrame()
	if err != nil {
		t.Fatalf("next frame 2: %v", err)
	}
	if fr2 != nil {
		t.Fatalf("expected no further frame, got %v", fr2)
	}
}
