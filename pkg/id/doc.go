// Package id generates time-ordered 128-bit identifiers.
//
// IDs tag replication log records and inbound requests so that log lines and
// propagated calls can be correlated.
//
//	gen := id.NewGenerator()
//	rid := gen.Next()
//	fmt.Println(rid.String(), rid.TimeMs())
package id
