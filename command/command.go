// Package command implements every command-schema type the server
// understands: one Go type per command, each a record or discriminated
// variant set built from package token's leaves, plus a Registry that
// tries each in declaration order and dispatches to its handler.
package command

import (
	"github.com/mickamy/memds/datastore"
	"github.com/mickamy/memds/resp3"
	"github.com/mickamy/memds/token"
)

// Command is the schema/handler contract every command type
// implements: ParseMaybe decodes the command from a token cursor (the
// record/variant algorithm of spec.md §4.1), Encode appends its
// canonical token sequence back, and Handle executes it against the
// datastore.
type Command interface {
	// ParseMaybe attempts to decode this command starting at cur's
	// head. It returns false with the cursor untouched when the head
	// doesn't match (absent); a non-nil error only for a malformed
	// required field found after a keyword match.
	ParseMaybe(cur *token.Cursor) (bool, error)
	// Encode appends this command's canonical token sequence to out.
	Encode(out *[][]byte)
	// Handle executes the already-parsed command against ds and
	// returns its reply.
	Handle(ds *datastore.Store) (resp3.Value, error)
}
