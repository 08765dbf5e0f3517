// Package listxv1 defines the listx.v1.CommandService gRPC contract.
//
// The service carries commands as google.protobuf.Struct requests of the
// form {"namespace": "default", "args": ["LPUSH", "k", "v"]} and replies as
// google.protobuf.Value:
//
//	nil reply       null
//	bulk reply      string
//	array reply     list
//	status reply    {"status": "OK"}
//	integer reply   {"integer": "42"} (decimal string, keeps int64 precision)
//
// Arguments travel as proto strings and must therefore be valid UTF-8.
package listxv1
