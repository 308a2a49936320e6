package group

// Store owns one Group per active key
type Store[Req, Res any] struct {
	groups map[string]*Group[Req, Res]
	seq    sequence
}

// MakeStore instantiates a new, empty Store
func MakeStore[Req, Res any]() *Store[Req, Res] {
	return &Store[Req, Res]{
		groups: map[string]*Group[Req, Res]{},
	}
}

// Get returns the Group for key, if one exists
func (s *Store[Req, Res]) Get(key string) (*Group[Req, Res], bool) {
	g, ok := s.groups[key]
	return g, ok
}

// GetOrCreate returns the Group for key, creating it if necessary. The
// second result reports whether the Group was created
func (s *Store[Req, Res]) GetOrCreate(key string) (*Group[Req, Res], bool) {
	if g, ok := s.groups[key]; ok {
		return g, false
	}
	g := makeGroup[Req, Res](&s.seq)
	s.groups[key] = g
	return g, true
}

// Delete discards the Group for key
func (s *Store[_, _]) Delete(key string) {
	delete(s.groups, key)
}

// Len returns the number of Groups in the Store
func (s *Store[_, _]) Len() int {
	return len(s.groups)
}
