package command

import (
	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/resp3"
	"github.com/mickamy/memds/token"
)

// Incr is `INCR key`.
type Incr struct {
	Key string
}

func (c *Incr) ParseMaybe(cur *token.Cursor) (bool, error) {
	mark := cur.Mark()
	tok, ok := cur.Peek()
	if !ok || !token.EqualFoldKeyword(tok, "INCR") {
		cur.Reset(mark)
		return false, nil
	}
	cur.Advance()

	key, ok := token.ParseToken(cur)
	if !ok {
		cur.Reset(mark)
		return false, token.NewParseError(token.InvalidLength, "INCR requires key")
	}
	c.Key = string(key)
	return true, nil
}

func (c *Incr) Encode(out *[][]byte) {
	*out = append(*out, []byte("INCR"), []byte(c.Key))
}

func (c *Incr) Handle(ds *datastore.Store) (resp3.Value, error) {
	n, err := ds.Incr(c.Key)
	if err != nil {
		return resp3.Value{}, err
	}
	return resp3.Integer(n), nil
}
