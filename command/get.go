package command

import (
	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/resp3"
	"github.com/mickamy/memds/token"
)

// Get is `GET key`.
type Get struct {
	Key string
}

func (c *Get) ParseMaybe(cur *token.Cursor) (bool, error) {
	mark := cur.Mark()
	tok, ok := cur.Peek()
	if !ok || !token.EqualFoldKeyword(tok, "GET") {
		cur.Reset(mark)
		return false, nil
	}
	cur.Advance()

	key, ok := token.ParseToken(cur)
	if !ok {
		cur.Reset(mark)
		return false, token.NewParseError(token.InvalidLength, "GET requires key")
	}
	c.Key = string(key)
	return true, nil
}

func (c *Get) Encode(out *[][]byte) {
	*out = append(*out, []byte("GET"), []byte(c.Key))
}

func (c *Get) Handle(ds *datastore.Store) (resp3.Value, error) {
	v, ok, err := ds.Get(c.Key)
	if err != nil {
		return resp3.Value{}, err
	}
	if !ok {
		return resp3.NullBulkString(), nil
	}
	return resp3.BulkString(v), nil
}
