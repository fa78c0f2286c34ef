package command

import (
	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/resp3"
	"github.com/mickamy/memds/token"
)

// Sadd is `SADD key elements...`. Elements is the record's trailing
// greedy sequence field — it must come last, since it consumes the
// rest of the cursor.
type Sadd struct {
	Key      string
	Elements []string
}

func (c *Sadd) ParseMaybe(cur *token.Cursor) (bool, error) {
	mark := cur.Mark()
	tok, ok := cur.Peek()
	if !ok || !token.EqualFoldKeyword(tok, "SADD") {
		cur.Reset(mark)
		return false, nil
	}
	cur.Advance()

	key, ok := token.ParseToken(cur)
	if !ok {
		cur.Reset(mark)
		return false, token.NewParseError(token.InvalidLength, "SADD requires key")
	}
	c.Key = string(key)

	elems, present, err := token.ParseSeq(cur, func(cur *token.Cursor) (string, bool, error) {
		tok, ok := token.ParseToken(cur)
		return string(tok), ok, nil
	})
	if err != nil {
		cur.Reset(mark)
		return false, err
	}
	if !present {
		cur.Reset(mark)
		return false, token.NewParseError(token.InvalidLength, "SADD requires at least one element")
	}
	c.Elements = elems
	return true, nil
}

func (c *Sadd) Encode(out *[][]byte) {
	*out = append(*out, []byte("SADD"), []byte(c.Key))
	for _, e := range c.Elements {
		*out = append(*out, []byte(e))
	}
}

func (c *Sadd) Handle(ds *datastore.Store) (resp3.Value, error) {
	n, err := ds.SAdd(c.Key, c.Elements)
	if err != nil {
		return resp3.Value{}, err
	}
	return resp3.Integer(int64(n)), nil
}
