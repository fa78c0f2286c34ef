package command

import (
	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/resp3"
	"github.com/mickamy/memds/token"
)

// entry pairs a command's name (used only in error messages) with a
// fresh-value constructor, since ParseMaybe mutates the receiver and
// a failed attempt must not leak state into the next registry try.
type entry struct {
	name string
	new  func() Command
}

// Registry holds the fixed, statically known ordered list of command
// schemas (spec.md §4.4's table, declaration order) and dispatches a
// decoded token vector to the first one that parses.
type Registry struct {
	entries []entry
}

// NewRegistry builds the registry with every command this server
// understands, in spec.md §4.4's table order.
func NewRegistry() *Registry {
	return &Registry{entries: []entry{
		{"PING", func() Command { return &Ping{} }},
		{"HELLO", func() Command { return &Hello{} }},
		{"COMMAND", func() Command { return &CommandCmd{} }},
		{"GET", func() Command { return &Get{} }},
		{"SET", func() Command { return &Set{} }},
		{"INCR", func() Command { return &Incr{} }},
		{"SADD", func() Command { return &Sadd{} }},
		{"SMEMBERS", func() Command { return &Smembers{} }},
		{"SAVE", func() Command { return &Save{} }},
	}}
}

// Dispatch tries each registered schema in order against tokens. On
// the first present parse it runs the handler and appends the
// RESP3-encoded reply to out, returning whether the session must
// flush immediately. A parse or handle failure appends a SimpleError
// and requests an immediate flush; exhausting the registry appends an
// "unsupported command" SimpleError without forcing a flush — the
// session continues either way.
func (r *Registry) Dispatch(tokens [][]byte, ds *datastore.Store, out *[]byte) (flush bool) {
	cur := token.NewCursor(tokens)

	for _, e := range r.entries {
		cmd := e.new()
		present, err := cmd.ParseMaybe(cur)
		if err != nil {
			*out = resp3.Append(*out, resp3.SimpleError("ERR failed to parse: "+e.name))
			return true
		}
		if !present {
			continue
		}

		resp, err := cmd.Handle(ds)
		if err != nil {
			*out = resp3.Append(*out, resp3.SimpleError(err.Error()))
			return true
		}
		*out = resp3.Append(*out, resp)
		return false
	}

	name := "?"
	if tok, ok := cur.Peek(); ok {
		name = string(tok)
	}
	*out = resp3.Append(*out, resp3.SimpleError("ERR command "+name+" not supported"))
	return false
}
