package command

import (
	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/resp3"
	"github.com/mickamy/memds/token"
)

// Save is the keyword-only, fieldless SAVE command: triggers an
// immediate snapshot to the datastore's configured path.
type Save struct{}

func (c *Save) ParseMaybe(cur *token.Cursor) (bool, error) {
	mark := cur.Mark()
	tok, ok := cur.Peek()
	if !ok || !token.EqualFoldKeyword(tok, "SAVE") {
		cur.Reset(mark)
		return false, nil
	}
	cur.Advance()
	return true, nil
}

func (c *Save) Encode(out *[][]byte) {
	*out = append(*out, []byte("SAVE"))
}

func (c *Save) Handle(ds *datastore.Store) (resp3.Value, error) {
	if err := ds.Save(); err != nil {
		return resp3.Value{}, err
	}
	return resp3.SimpleString("OK"), nil
}
