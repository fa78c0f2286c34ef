package command

import (
	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/resp3"
	"github.com/mickamy/memds/token"
)

// serverName and serverVersion are the fixed HELLO reply fields.
const (
	serverName    = "memds"
	serverVersion = "0.0.1"
)

// helloAuth is HELLO's optional nested record: keyword "AUTH" followed
// by two required fields, user and pass. Authentication is parsed and
// ignored (spec.md §1 Non-goals) — the fields exist only so the wire
// shape round-trips.
type helloAuth struct {
	user string
	pass string
}

func (a *helloAuth) parseMaybe(cur *token.Cursor) (bool, error) {
	mark := cur.Mark()
	tok, ok := cur.Peek()
	if !ok || !token.EqualFoldKeyword(tok, "AUTH") {
		cur.Reset(mark)
		return false, nil
	}
	cur.Advance()

	user, ok := token.ParseToken(cur)
	if !ok {
		cur.Reset(mark)
		return false, token.NewParseError(token.InvalidLength, "AUTH requires user and pass")
	}
	pass, ok := token.ParseToken(cur)
	if !ok {
		cur.Reset(mark)
		return false, token.NewParseError(token.InvalidLength, "AUTH requires user and pass")
	}
	a.user, a.pass = string(user), string(pass)
	return true, nil
}

func (a *helloAuth) encode(out *[][]byte) {
	*out = append(*out, []byte("AUTH"), []byte(a.user), []byte(a.pass))
}

// Hello is `HELLO protover [AUTH user pass]`.
type Hello struct {
	Protover uint64
	Auth     *helloAuth
}

func (c *Hello) ParseMaybe(cur *token.Cursor) (bool, error) {
	mark := cur.Mark()
	tok, ok := cur.Peek()
	if !ok || !token.EqualFoldKeyword(tok, "HELLO") {
		cur.Reset(mark)
		return false, nil
	}
	cur.Advance()

	protover, ok, err := token.ParseUint(cur)
	if err != nil {
		cur.Reset(mark)
		return false, err
	}
	if !ok {
		cur.Reset(mark)
		return false, token.NewParseError(token.InvalidLength, "HELLO requires protover")
	}
	c.Protover = protover

	var auth helloAuth
	present, err := auth.parseMaybe(cur)
	if err != nil {
		cur.Reset(mark)
		return false, err
	}
	if present {
		c.Auth = &auth
	} else {
		c.Auth = nil
	}
	return true, nil
}

func (c *Hello) Encode(out *[][]byte) {
	*out = append(*out, []byte("HELLO"))
	*out = append(*out, []byte(formatUint(c.Protover)))
	if c.Auth != nil {
		c.Auth.encode(out)
	}
}

func (c *Hello) Handle(ds *datastore.Store) (resp3.Value, error) {
	return resp3.Map(
		resp3.SimpleString("server"), resp3.SimpleString(serverName),
		resp3.SimpleString("version"), resp3.SimpleString(serverVersion),
		resp3.SimpleString("proto"), resp3.Integer(int64(c.Protover)),
	), nil
}
