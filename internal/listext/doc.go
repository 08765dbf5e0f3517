// Package listext implements the LIST_EXTEND filter-and-drain transform.
//
// The transform visits every element of a source list exactly once by
// popping from the tail and pushing the same element back onto the head,
// which leaves the source in its original order after a full pass. Elements
// accepted by a predicate are copied onto the head of a destination list that
// was deleted beforehand.
//
//	n, err := listext.Filter(ks, "readings", "in-range", "5", "+inf")
//
// Storage is reached only through the Keyspace and Sequence interfaces, so the
// transform can run against the Pebble list store, inside a transaction, or
// against an in-memory fake in tests.
package listext
