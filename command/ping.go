package command

import (
	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/resp3"
	"github.com/mickamy/memds/token"
)

// Ping is the fieldless PING command: a unit record that matches only
// when the head token is the keyword "PING" (ASCII case-insensitive).
type Ping struct{}

func (c *Ping) ParseMaybe(cur *token.Cursor) (bool, error) {
	mark := cur.Mark()
	tok, ok := cur.Peek()
	if !ok || !token.EqualFoldKeyword(tok, "PING") {
		cur.Reset(mark)
		return false, nil
	}
	cur.Advance()
	return true, nil
}

func (c *Ping) Encode(out *[][]byte) {
	*out = append(*out, []byte("PING"))
}

func (c *Ping) Handle(ds *datastore.Store) (resp3.Value, error) {
	return resp3.SimpleString("PONG"), nil
}
