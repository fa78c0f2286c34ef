package token

import "strconv"

// ParseToken is the borrowed-string leaf: it consumes and returns the
// next token verbatim. The returned slice borrows the frame's buffer
// and must be copied before being retained past the current dispatch.
func ParseToken(cur *Cursor) ([]byte, bool) {
	tok, ok := cur.Peek()
	if !ok {
		return nil, false
	}
	cur.Advance()
	return tok, true
}

// ParseUint is the non-negative-integer leaf: base-10 decode of the
// next token. A present-but-malformed token yields a Parse error,
// distinct from the token simply being absent.
func ParseUint(cur *Cursor) (uint64, bool, error) {
	tok, ok := cur.Peek()
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(string(tok), 10, 64)
	if err != nil {
		return 0, false, NewParseError(Parse, "invalid integer: "+string(tok))
	}
	cur.Advance()
	return n, true, nil
}

// One is the shape every element type passed to ParseSeq must satisfy:
// a parse function with the same (present, error) contract as a
// command-schema type's ParseMaybe, specialized to return a typed
// value rather than mutating a receiver.
type One[T any] func(cur *Cursor) (T, bool, error)

// ParseSeq is the greedy "ordered sequence of T" leaf: it repeatedly
// parses T until the cursor is empty or T reports absent. It must
// only be used as a record's trailing field, since it consumes the
// remainder of the cursor (spec §9, "Vec greediness inside a record").
//
// It returns present=false (matching "parse returns absent when the
// cursor is empty") only when the cursor is already empty on entry;
// a required sequence field therefore fails with InvalidLength when
// no elements at all were supplied.
func ParseSeq[T any](cur *Cursor, one One[T]) ([]T, bool, error) {
	if cur.Empty() {
		return nil, false, nil
	}
	var out []T
	for !cur.Empty() {
		v, ok, err := one(cur)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out, true, nil
}
