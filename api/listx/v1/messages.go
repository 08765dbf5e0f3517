package listxv1

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"google.golang.org/protobuf/types/known/structpb"
)

// ErrBadRequest reports a request Struct that does not follow the contract.
var ErrBadRequest = errors.New("bad request")

// NewExecuteRequest builds an Execute request.
func NewExecuteRequest(namespace string, args []string) (*structpb.Struct, error) {
	list := make([]any, len(args))
	for i, a := range args {
		if !utf8.ValidString(a) {
			return nil, fmt.Errorf("%w: argument %d is not valid UTF-8", ErrBadRequest, i)
		}
		list[i] = a
	}
	return structpb.NewStruct(map[string]any{
		"namespace": namespace,
		"args":      list,
	})
}

// ParseExecuteRequest extracts the namespace and argv of a request.
func ParseExecuteRequest(req *structpb.Struct) (string, [][]byte, error) {
	fields := req.GetFields()
	var ns string
	if v, ok := fields["namespace"]; ok {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return "", nil, fmt.Errorf("%w: namespace must be a string", ErrBadRequest)
		}
		ns = s.StringValue
	}
	list := fields["args"].GetListValue()
	if len(list.GetValues()) == 0 {
		return "", nil, fmt.Errorf("%w: args must be a non-empty list", ErrBadRequest)
	}
	argv := make([][]byte, len(list.GetValues()))
	for i, v := range list.GetValues() {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return "", nil, fmt.Errorf("%w: args[%d] must be a string", ErrBadRequest, i)
		}
		argv[i] = []byte(s.StringValue)
	}
	return ns, argv, nil
}

// StatusValue encodes a status reply.
func StatusValue(s string) *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		"status": structpb.NewStringValue(s),
	}})
}

// IntegerValue encodes an integer reply.
func IntegerValue(n int64) *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		"integer": structpb.NewStringValue(strconv.FormatInt(n, 10)),
	}})
}

// BulkValue encodes a bulk reply. Invalid UTF-8 is replaced by U+FFFD.
func BulkValue(b []byte) *structpb.Value {
	return structpb.NewStringValue(strings.ToValidUTF8(string(b), "\uFFFD"))
}

// NilValue encodes a nil reply.
func NilValue() *structpb.Value { return structpb.NewNullValue() }

// ListOf encodes an array reply.
func ListOf(items ...*structpb.Value) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{Values: items})
}

// AsInteger decodes an integer reply.
func AsInteger(v *structpb.Value) (int64, bool) {
	f, ok := v.GetStructValue().GetFields()["integer"]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(f.GetStringValue(), 10, 64)
	return n, err == nil
}

// AsStatus decodes a status reply.
func AsStatus(v *structpb.Value) (string, bool) {
	f, ok := v.GetStructValue().GetFields()["status"]
	if !ok {
		return "", false
	}
	return f.GetStringValue(), true
}
