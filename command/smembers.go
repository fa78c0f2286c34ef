package command

import (
	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/resp3"
	"github.com/mickamy/memds/token"
)

// Smembers is `SMEMBERS key`.
type Smembers struct {
	Key string
}

func (c *Smembers) ParseMaybe(cur *token.Cursor) (bool, error) {
	mark := cur.Mark()
	tok, ok := cur.Peek()
	if !ok || !token.EqualFoldKeyword(tok, "SMEMBERS") {
		cur.Reset(mark)
		return false, nil
	}
	cur.Advance()

	key, ok := token.ParseToken(cur)
	if !ok {
		cur.Reset(mark)
		return false, token.NewParseError(token.InvalidLength, "SMEMBERS requires key")
	}
	c.Key = string(key)
	return true, nil
}

func (c *Smembers) Encode(out *[][]byte) {
	*out = append(*out, []byte("SMEMBERS"), []byte(c.Key))
}

func (c *Smembers) Handle(ds *datastore.Store) (resp3.Value, error) {
	members, ok, err := ds.SMembers(c.Key)
	if err != nil {
		return resp3.Value{}, err
	}
	if !ok {
		return resp3.NullArray(), nil
	}
	elems := make([]resp3.Value, len(members))
	for i, m := range members {
		elems[i] = resp3.BulkString(m)
	}
	return resp3.Array(elems), nil
}
