package command

import (
	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/resp3"
	"github.com/mickamy/memds/token"
)

// CommandCmd is the keyword-only, fieldless COMMAND introspection
// command. Its reply is always an empty array: this server doesn't
// implement the upstream's full command-catalog introspection.
type CommandCmd struct{}

func (c *CommandCmd) ParseMaybe(cur *token.Cursor) (bool, error) {
	mark := cur.Mark()
	tok, ok := cur.Peek()
	if !ok || !token.EqualFoldKeyword(tok, "COMMAND") {
		cur.Reset(mark)
		return false, nil
	}
	cur.Advance()
	return true, nil
}

func (c *CommandCmd) Encode(out *[][]byte) {
	*out = append(*out, []byte("COMMAND"))
}

func (c *CommandCmd) Handle(ds *datastore.Store) (resp3.Value, error) {
	return resp3.Array(nil), nil
}
