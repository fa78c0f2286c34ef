package command

import (
	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/resp3"
	"github.com/mickamy/memds/token"
)

// ExistsKind discriminates SET's NX/XX/Any existence guard. Any is the
// variant set's catch-all: it matches (without consuming) when
// neither NX nor XX's keyword is the head token (spec.md §9, "Open
// question: Exists default").
type ExistsKind int

const (
	ExistsAny ExistsKind = iota
	ExistsNX
	ExistsXX
)

func parseExists(cur *token.Cursor) (ExistsKind, bool, error) {
	tok, ok := cur.Peek()
	if ok && token.EqualFoldKeyword(tok, "NX") {
		cur.Advance()
		return ExistsNX, true, nil
	}
	if ok && token.EqualFoldKeyword(tok, "XX") {
		cur.Advance()
		return ExistsXX, true, nil
	}
	return ExistsAny, true, nil
}

func encodeExists(kind ExistsKind, out *[][]byte) {
	switch kind {
	case ExistsNX:
		*out = append(*out, []byte("NX"))
	case ExistsXX:
		*out = append(*out, []byte("XX"))
	case ExistsAny:
		// catch-all: emit nothing
	}
}

// ExpireKind discriminates SET's optional expiry variant. Unlike
// Exists, this variant set has no catch-all: when no keyword matches,
// the enclosing optional field is simply absent.
type ExpireKind int

const (
	ExpireNone ExpireKind = iota
	ExpireEX
	ExpirePX
	ExpireEXAT
	ExpirePXAT
	ExpireKeepTTL
)

// Expire is SET's optional expiry field. It is parsed and carried on
// the value but never evaluated (spec.md §9, "Expiry semantics").
type Expire struct {
	Kind ExpireKind
	// Value holds the EX/PX/EXAT/PXAT argument; unused for KeepTTL.
	Value uint64
}

func parseExpireMaybe(cur *token.Cursor) (*Expire, bool, error) {
	mark := cur.Mark()
	tok, ok := cur.Peek()
	if !ok {
		return nil, false, nil
	}

	var kind ExpireKind
	switch {
	case token.EqualFoldKeyword(tok, "EX"):
		kind = ExpireEX
	case token.EqualFoldKeyword(tok, "PX"):
		kind = ExpirePX
	case token.EqualFoldKeyword(tok, "EXAT"):
		kind = ExpireEXAT
	case token.EqualFoldKeyword(tok, "PXAT"):
		kind = ExpirePXAT
	case token.EqualFoldKeyword(tok, "KEEPTTL"):
		kind = ExpireKeepTTL
	default:
		return nil, false, nil
	}
	cur.Advance()

	if kind == ExpireKeepTTL {
		return &Expire{Kind: kind}, true, nil
	}

	n, ok, err := token.ParseUint(cur)
	if err != nil {
		cur.Reset(mark)
		return nil, false, err
	}
	if !ok {
		cur.Reset(mark)
		return nil, false, token.NewParseError(token.InvalidLength, "expiry option requires a value")
	}
	return &Expire{Kind: kind, Value: n}, true, nil
}

func (e *Expire) encode(out *[][]byte) {
	switch e.Kind {
	case ExpireEX:
		*out = append(*out, []byte("EX"), []byte(formatUint(e.Value)))
	case ExpirePX:
		*out = append(*out, []byte("PX"), []byte(formatUint(e.Value)))
	case ExpireEXAT:
		*out = append(*out, []byte("EXAT"), []byte(formatUint(e.Value)))
	case ExpirePXAT:
		*out = append(*out, []byte("PXAT"), []byte(formatUint(e.Value)))
	case ExpireKeepTTL:
		*out = append(*out, []byte("KEEPTTL"))
	}
}

// Set is `SET key value [NX|XX] [GET] [EX s|PX ms|EXAT ts|PXAT ts|KEEPTTL]`.
// Only Key and Value are evaluated; Exists, Get, and Expire are parsed
// and carried on the value but not acted on (spec.md §4.4's SET row).
type Set struct {
	Key    string
	Value  string
	Exists ExistsKind
	Get    bool
	Expire *Expire
}

func (c *Set) ParseMaybe(cur *token.Cursor) (bool, error) {
	mark := cur.Mark()
	tok, ok := cur.Peek()
	if !ok || !token.EqualFoldKeyword(tok, "SET") {
		cur.Reset(mark)
		return false, nil
	}
	cur.Advance()

	key, ok := token.ParseToken(cur)
	if !ok {
		cur.Reset(mark)
		return false, token.NewParseError(token.InvalidLength, "SET requires key")
	}
	value, ok := token.ParseToken(cur)
	if !ok {
		cur.Reset(mark)
		return false, token.NewParseError(token.InvalidLength, "SET requires value")
	}

	exists, _, err := parseExists(cur)
	if err != nil {
		cur.Reset(mark)
		return false, err
	}

	get := false
	if tok, ok := cur.Peek(); ok && token.EqualFoldKeyword(tok, "GET") {
		cur.Advance()
		get = true
	}

	expire, _, err := parseExpireMaybe(cur)
	if err != nil {
		cur.Reset(mark)
		return false, err
	}

	c.Key = string(key)
	c.Value = string(value)
	c.Exists = exists
	c.Get = get
	c.Expire = expire
	return true, nil
}

func (c *Set) Encode(out *[][]byte) {
	*out = append(*out, []byte("SET"), []byte(c.Key), []byte(c.Value))
	encodeExists(c.Exists, out)
	if c.Get {
		*out = append(*out, []byte("GET"))
	}
	if c.Expire != nil {
		c.Expire.encode(out)
	}
}

func (c *Set) Handle(ds *datastore.Store) (resp3.Value, error) {
	ds.Set(c.Key, c.Value)
	return resp3.SimpleString("OK"), nil
}
