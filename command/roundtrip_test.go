package command_test

import (
	"reflect"
	"testing"

	"github.com/mickamy/memds/command"
	"github.com/mickamy/memds/token"
)

// roundTrip parses input, re-encodes the parsed value, and re-parses
// the re-encoding, asserting both parses succeed and produce equal
// values (spec.md §8 invariant 4: encode(parse(T)) re-parses to an
// equal value).
func roundTrip(t *testing.T, cmd command.Command, input [][]byte) {
	t.Helper()

	cur := token.NewCursor(input)
	present, err := cmd.ParseMaybe(cur)
	if err != nil {
		t.Fatalf("ParseMaybe: %v", err)
	}
	if !present {
		t.Fatal("expected the command to parse")
	}
	if !cur.Empty() {
		t.Fatalf("cursor not fully consumed: %d tokens left", len(input)-cur.Mark())
	}

	var encoded [][]byte
	cmd.Encode(&encoded)

	again := reflect.New(reflect.TypeOf(cmd).Elem()).Interface().(command.Command)
	cur2 := token.NewCursor(encoded)
	present2, err := again.ParseMaybe(cur2)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if !present2 {
		t.Fatal("expected the re-encoded tokens to parse")
	}
	if !reflect.DeepEqual(cmd, again) {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", again, cmd)
	}
}

func TestSetOptionsRoundTrip(t *testing.T) {
	t.Parallel()
	roundTrip(t, &command.Set{}, tokens("SET", "a", "b", "NX", "GET", "EX", "20"))
}

func TestSetPlainRoundTrip(t *testing.T) {
	t.Parallel()
	roundTrip(t, &command.Set{}, tokens("SET", "a", "b"))
}

func TestSetXXKeepTTLRoundTrip(t *testing.T) {
	t.Parallel()
	roundTrip(t, &command.Set{}, tokens("SET", "a", "b", "XX", "KEEPTTL"))
}

func TestSaddRoundTrip(t *testing.T) {
	t.Parallel()
	roundTrip(t, &command.Sadd{}, tokens("SADD", "key", "x", "y", "z"))
}

func TestHelloWithAuthRoundTrip(t *testing.T) {
	t.Parallel()
	roundTrip(t, &command.Hello{}, tokens("HELLO", "3", "AUTH", "user", "pass"))
}

func TestHelloWithoutAuthRoundTrip(t *testing.T) {
	t.Parallel()
	roundTrip(t, &command.Hello{}, tokens("HELLO", "3"))
}

func TestGetRoundTrip(t *testing.T) {
	t.Parallel()
	roundTrip(t, &command.Get{}, tokens("GET", "key"))
}

func TestCaseInsensitiveKeywordMatch(t *testing.T) {
	t.Parallel()
	for _, variant := range []string{"ping", "Ping", "PING", "pInG"} {
		cur := token.NewCursor(tokens(variant))
		var p command.Ping
		present, err := p.ParseMaybe(cur)
		if err != nil || !present {
			t.Fatalf("%q: got present=%v err=%v", variant, present, err)
		}
		if !cur.Empty() {
			t.Fatalf("%q: cursor not consumed", variant)
		}
	}
}

func TestParseNonDestructiveOnHeadMismatch(t *testing.T) {
	t.Parallel()
	input := tokens("GET", "a")
	cur := token.NewCursor(input)
	var p command.Ping
	present, err := p.ParseMaybe(cur)
	if err != nil || present {
		t.Fatalf("got present=%v err=%v, want absent", present, err)
	}
	if cur.Mark() != 0 {
		t.Fatalf("cursor advanced on a failed parse: mark=%d", cur.Mark())
	}
	next, ok := cur.Peek()
	if !ok || string(next) != "GET" {
		t.Fatalf("cursor corrupted: %q", next)
	}
}

func TestParseProgressOnMalformedRequiredField(t *testing.T) {
	t.Parallel()
	// SET's keyword matches but the required value field is missing:
	// this must fail with an error, not silently report absent.
	cur := token.NewCursor(tokens("SET", "onlykey"))
	var s command.Set
	present, err := s.ParseMaybe(cur)
	if err == nil {
		t.Fatal("expected a parse error for a missing required field")
	}
	if present {
		t.Fatal("a malformed required field must not report present")
	}
	var pe *token.ParseError
	if perr, ok := err.(*token.ParseError); !ok {
		t.Fatalf("expected *token.ParseError, got %T", err)
	} else {
		pe = perr
	}
	if pe.Kind != token.InvalidLength {
		t.Fatalf("got %v, want InvalidLength", pe.Kind)
	}
}
