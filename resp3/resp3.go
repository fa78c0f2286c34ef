// Package resp3 implements the subset of the RESP3 wire protocol this
// server needs: encoding outbound replies and decoding an inbound
// command as an array of bulk strings.
package resp3

import "strconv"

// Kind selects which of a Value's fields is meaningful.
type Kind int

const (
	KindSimpleString Kind = iota
	KindSimpleError
	KindInteger
	KindBulkString
	KindArray
	KindMap
)

// Value is a tagged RESP3 reply. Construct one with the Simple*/Bulk*/
// etc. helpers below rather than setting fields directly.
type Value struct {
	Kind Kind

	Str     string  // SimpleString, SimpleError
	Int     int64   // Integer
	Bulk    string  // BulkString (meaningless if BulkNil)
	BulkNil bool    // BulkString: true for the nil bulk reply
	Array   []Value // Array (meaningless if ArrayNil)
	ArrNil  bool    // Array: true for the nil array reply
	Pairs   []Value // Map: flattened key, value, key, value, ...
}

func SimpleString(s string) Value { return Value{Kind: KindSimpleString, Str: s} }
func SimpleError(s string) Value  { return Value{Kind: KindSimpleError, Str: s} }
func Integer(n int64) Value       { return Value{Kind: KindInteger, Int: n} }
func BulkString(s string) Value   { return Value{Kind: KindBulkString, Bulk: s} }
func NullBulkString() Value       { return Value{Kind: KindBulkString, BulkNil: true} }
func Array(elems []Value) Value   { return Value{Kind: KindArray, Array: elems} }
func NullArray() Value            { return Value{Kind: KindArray, ArrNil: true} }

// Map builds a RESP3 map value from alternating key/value pairs
// (key1, value1, key2, value2, ...). len(pairs) must be even.
func Map(pairs ...Value) Value {
	return Value{Kind: KindMap, Pairs: pairs}
}

// Append appends v's canonical RESP3 wire encoding to dst and returns
// the extended slice.
func Append(dst []byte, v Value) []byte {
	switch v.Kind {
	case KindSimpleString:
		return appendSimple(dst, '+', v.Str)
	case KindSimpleError:
		return appendSimple(dst, '-', v.Str)
	case KindInteger:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, v.Int, 10)
		return append(dst, '\r', '\n')
	case KindBulkString:
		if v.BulkNil {
			return append(dst, '$', '-', '1', '\r', '\n')
		}
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(v.Bulk)), 10)
		dst = append(dst, '\r', '\n')
		dst = append(dst, v.Bulk...)
		return append(dst, '\r', '\n')
	case KindArray:
		if v.ArrNil {
			return append(dst, '*', '-', '1', '\r', '\n')
		}
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(v.Array)), 10)
		dst = append(dst, '\r', '\n')
		for _, e := range v.Array {
			dst = Append(dst, e)
		}
		return dst
	case KindMap:
		dst = append(dst, '%')
		dst = strconv.AppendInt(dst, int64(len(v.Pairs)/2), 10)
		dst = append(dst, '\r', '\n')
		for _, e := range v.Pairs {
			dst = Append(dst, e)
		}
		return dst
	}
	return dst
}

func appendSimple(dst []byte, prefix byte, s string) []byte {
	dst = append(dst, prefix)
	dst = append(dst, s...)
	return append(dst, '\r', '\n')
}
