package command

import "strconv"

// ReplyKind discriminates Reply values.
type ReplyKind int

const (
	KindNil ReplyKind = iota
	KindStatus
	KindInteger
	KindBulk
	KindArray
)

func (k ReplyKind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindInteger:
		return "integer"
	case KindBulk:
		return "bulk"
	case KindArray:
		return "array"
	default:
		return "nil"
	}
}

// Reply is a command result. Errors travel separately as Go errors.
type Reply struct {
	Kind   ReplyKind
	Status string
	Int    int64
	Bulk   []byte
	Array  []Reply
}

// OK is the canonical status reply.
var OK = Status("OK")

func Status(s string) Reply      { return Reply{Kind: KindStatus, Status: s} }
func Integer(n int64) Reply      { return Reply{Kind: KindInteger, Int: n} }
func Bulk(b []byte) Reply        { return Reply{Kind: KindBulk, Bulk: b} }
func Nil() Reply                 { return Reply{Kind: KindNil} }
func Array(items ...Reply) Reply { return Reply{Kind: KindArray, Array: items} }

// BulkArray wraps each element as a bulk reply.
func BulkArray(elems [][]byte) Reply {
	items := make([]Reply, len(elems))
	for i, e := range elems {
		items[i] = Bulk(e)
	}
	return Array(items...)
}

// String renders the reply the way redis-cli does, without quoting.
func (r Reply) String() string {
	switch r.Kind {
	case KindStatus:
		return r.Status
	case KindInteger:
		return "(integer) " + strconv.FormatInt(r.Int, 10)
	case KindBulk:
		return strconv.Quote(string(r.Bulk))
	case KindArray:
		if len(r.Array) == 0 {
			return "(empty array)"
		}
		out := ""
		for i, item := range r.Array {
			if i > 0 {
				out += "\n"
			}
			out += strconv.Itoa(i+1) + ") " + item.String()
		}
		return out
	default:
		return "(nil)"
	}
}
