package token_test

import (
	"testing"

	"github.com/mickamy/memds/token"
)

func tokens(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func TestParseTokenAdvances(t *testing.T) {
	t.Parallel()
	cur := token.NewCursor(tokens("a", "b"))
	tok, ok := token.ParseToken(cur)
	if !ok || string(tok) != "a" {
		t.Fatalf("got %q, %v", tok, ok)
	}
	next, _ := cur.Peek()
	if string(next) != "b" {
		t.Fatalf("cursor did not advance, next=%q", next)
	}
}

func TestParseTokenEmptyIsAbsent(t *testing.T) {
	t.Parallel()
	cur := token.NewCursor(nil)
	mark := cur.Mark()
	_, ok := token.ParseToken(cur)
	if ok {
		t.Fatal("expected absent on empty cursor")
	}
	if cur.Mark() != mark {
		t.Fatal("cursor advanced on absent parse")
	}
}

func TestParseUintMalformedIsParseError(t *testing.T) {
	t.Parallel()
	cur := token.NewCursor(tokens("notanumber"))
	_, ok, err := token.ParseUint(cur)
	if ok {
		t.Fatal("expected failure, got ok")
	}
	var pe *token.ParseError
	if err == nil {
		t.Fatal("expected error")
	}
	if perr, isPE := err.(*token.ParseError); !isPE || perr.Kind != token.Parse {
		t.Fatalf("got %v, want *ParseError{Kind: Parse}", err)
	}
	_ = pe
}

func TestParseUintValid(t *testing.T) {
	t.Parallel()
	cur := token.NewCursor(tokens("42", "rest"))
	n, ok, err := token.ParseUint(cur)
	if err != nil || !ok || n != 42 {
		t.Fatalf("got %d, %v, %v", n, ok, err)
	}
	next, _ := cur.Peek()
	if string(next) != "rest" {
		t.Fatal("cursor did not advance past the integer")
	}
}

func TestEqualFoldKeywordCaseInsensitive(t *testing.T) {
	t.Parallel()
	variants := []string{"SET", "set", "Set", "sEt"}
	for _, v := range variants {
		if !token.EqualFoldKeyword([]byte(v), "SET") {
			t.Fatalf("%q did not match SET", v)
		}
	}
	if token.EqualFoldKeyword([]byte("SETX"), "SET") {
		t.Fatal("length mismatch incorrectly matched")
	}
	if token.EqualFoldKeyword([]byte("GET"), "SET") {
		t.Fatal("different keyword incorrectly matched")
	}
}

func TestParseSeqGreedy(t *testing.T) {
	t.Parallel()
	cur := token.NewCursor(tokens("a", "b", "c"))
	elems, ok, err := token.ParseSeq(cur, func(c *token.Cursor) ([]byte, bool, error) {
		tok, ok := token.ParseToken(c)
		return tok, ok, nil
	})
	if err != nil || !ok {
		t.Fatalf("got ok=%v, err=%v", ok, err)
	}
	if len(elems) != 3 {
		t.Fatalf("got %d elements, want 3", len(elems))
	}
	if !cur.Empty() {
		t.Fatal("cursor should be fully consumed")
	}
}

func TestParseSeqEmptyCursorIsAbsent(t *testing.T) {
	t.Parallel()
	cur := token.NewCursor(nil)
	_, ok, err := token.ParseSeq(cur, func(c *token.Cursor) ([]byte, bool, error) {
		tok, ok := token.ParseToken(c)
		return tok, ok, nil
	})
	if err != nil || ok {
		t.Fatalf("got ok=%v, err=%v, want absent", ok, err)
	}
}
