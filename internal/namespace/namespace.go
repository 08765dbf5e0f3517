package namespace

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/rzbill/listx/internal/liststore"
	pebblestore "github.com/rzbill/listx/internal/storage/pebble"
)

// ErrNotFound is returned by Get for namespaces that were never created.
var ErrNotFound = errors.New("namespace not found")

// Meta holds namespace metadata and list limits.
type Meta struct {
	Name            string `json:"name"`
	CreatedAtMs     int64  `json:"createdAtMs"`
	MaxListLength   int64  `json:"maxListLength"`
	MaxElementBytes int    `json:"maxElementBytes"`
}

// Limits returns the store limits enforced for writes in this namespace.
func (m Meta) Limits() liststore.Limits {
	return liststore.Limits{MaxListLength: m.MaxListLength, MaxElementBytes: m.MaxElementBytes}
}

// Defaults returns opinionated defaults for new namespaces.
func Defaults() Meta {
	return Meta{
		MaxListLength:   0,         // unlimited
		MaxElementBytes: 512 << 20, // 512 MiB, the Redis bulk string limit
	}
}

var nsMetaPrefix = []byte("nsmeta/")

// nsMetaKey builds metadata key for a namespace.
func nsMetaKey(ns string) []byte {
	k := make([]byte, 0, len(nsMetaPrefix)+len(ns))
	k = append(k, nsMetaPrefix...)
	k = append(k, ns...)
	return k
}

// EnsureNamespace creates a namespace meta record if absent, returning the
// effective meta. tmpl supplies the limits for a new record; its Name and
// CreatedAtMs are ignored. Idempotent: returns existing if already present.
func EnsureNamespace(db *pebblestore.DB, name string, tmpl Meta) (Meta, error) {
	key := nsMetaKey(name)
	if b, err := db.Get(key); err == nil && len(b) > 0 {
		var m Meta
		if err := json.Unmarshal(b, &m); err == nil {
			return m, nil
		}
		// fallthrough to rewrite if corrupted
	} else if err != nil && !errors.Is(err, pebblestore.ErrNotFound) {
		return Meta{}, err
	}
	m := tmpl
	m.Name = name
	m.CreatedAtMs = time.Now().UnixMilli()
	bytes, err := json.Marshal(m)
	if err != nil {
		return Meta{}, err
	}
	if err := db.Set(key, bytes); err != nil {
		return Meta{}, err
	}
	return m, nil
}

// Get loads the metadata of an existing namespace.
func Get(db *pebblestore.DB, name string) (Meta, error) {
	b, err := db.Get(nsMetaKey(name))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return Meta{}, ErrNotFound
	}
	if err != nil {
		return Meta{}, err
	}
	var m Meta
	if err := json.Unmarshal(b, &m); err != nil {
		return Meta{}, err
	}
	return m, nil
}

// List returns every namespace in key order.
func List(db *pebblestore.DB) ([]Meta, error) {
	upper := append([]byte(nil), nsMetaPrefix...)
	upper[len(upper)-1]++
	it, err := db.NewIter(&pebble.IterOptions{LowerBound: nsMetaPrefix, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var out []Meta
	for ok := it.First(); ok; ok = it.Next() {
		var m Meta
		if err := json.Unmarshal(it.Value(), &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, it.Error()
}
