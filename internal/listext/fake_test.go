package listext

import "errors"

// memKeyspace is an in-memory Keyspace used to exercise the transform in
// isolation. Lists are stored head-first.
type memKeyspace struct {
	lists   map[string][][]byte
	strings map[string][]byte
	// failPushAfter makes the nth PushHead against failKey fail (1-based).
	failKey       string
	failPushAfter int
	pushes        int
	opened        int
	closed        int
}

var errInjected = errors.New("injected push failure")

func newMemKeyspace() *memKeyspace {
	return &memKeyspace{lists: map[string][][]byte{}, strings: map[string][]byte{}}
}

func (m *memKeyspace) seed(key string, elems ...string) {
	l := make([][]byte, len(elems))
	for i, e := range elems {
		l[i] = []byte(e)
	}
	m.lists[key] = l
}

func (m *memKeyspace) list(key string) []string {
	out := make([]string, 0, len(m.lists[key]))
	for _, e := range m.lists[key] {
		out = append(out, string(e))
	}
	return out
}

func (m *memKeyspace) OpenSequence(key string, _ Mode) (Sequence, error) {
	m.opened++
	return &memSeq{ks: m, key: key}, nil
}

type memSeq struct {
	ks  *memKeyspace
	key string
}

func (s *memSeq) Kind() (Kind, error) {
	if _, ok := s.ks.strings[s.key]; ok {
		return KindOther, nil
	}
	if l, ok := s.ks.lists[s.key]; ok && len(l) > 0 {
		return KindList, nil
	}
	return KindAbsent, nil
}

func (s *memSeq) Len() (int64, error) { return int64(len(s.ks.lists[s.key])), nil }

func (s *memSeq) Delete() error {
	delete(s.ks.lists, s.key)
	delete(s.ks.strings, s.key)
	return nil
}

func (s *memSeq) PopTail() ([]byte, bool, error) {
	l := s.ks.lists[s.key]
	if len(l) == 0 {
		return nil, false, nil
	}
	e := l[len(l)-1]
	s.ks.lists[s.key] = l[:len(l)-1]
	return e, true, nil
}

func (s *memSeq) PushHead(elem []byte) error {
	if s.key == s.ks.failKey {
		s.ks.pushes++
		if s.ks.pushes >= s.ks.failPushAfter {
			return errInjected
		}
	}
	s.ks.lists[s.key] = append([][]byte{elem}, s.ks.lists[s.key]...)
	return nil
}

func (s *memSeq) Close() error {
	s.ks.closed++
	return nil
}
