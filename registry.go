package xhttp2

import "sort"

// StreamRegistry is the sorted set of streams a Connection currently
// knows about. It is owned entirely by the connection's dispatch
// goroutine (see conn.go) and so needs no locking of its own.
type StreamRegistry struct {
	list []*Stream

	lastClientID StreamID // highest client-initiated stream id seen
	lastServerID StreamID // highest server-initiated (pushed) stream id seen

	openCount int
}

func (r *StreamRegistry) indexOf(id StreamID) int {
	return sort.Search(len(r.list), func(i int) bool {
		return r.list[i].id >= id
	})
}

// Insert adds s to the registry in id order. Inserting a stream that
// already exists replaces it.
func (r *StreamRegistry) Insert(s *Stream) {
	i := r.indexOf(s.id)

	if i < len(r.list) && r.list[i].id == s.id {
		r.list[i] = s
		return
	}

	r.list = append(r.list, nil)
	copy(r.list[i+1:], r.list[i:])
	r.list[i] = s

	if s.id.IsClientInitiated() && s.id > r.lastClientID {
		r.lastClientID = s.id
	}
	if s.id.IsServerInitiated() && s.id > r.lastServerID {
		r.lastServerID = s.id
	}
}

// Get returns the stream with id, or nil.
func (r *StreamRegistry) Get(id StreamID) *Stream {
	i := r.indexOf(id)
	if i < len(r.list) && r.list[i].id == id {
		return r.list[i]
	}
	return nil
}

// Delete removes and returns the stream with id, or nil if absent.
func (r *StreamRegistry) Delete(id StreamID) *Stream {
	i := r.indexOf(id)
	if i < len(r.list) && r.list[i].id == id {
		s := r.list[i]
		r.list = append(r.list[:i], r.list[i+1:]...)
		return s
	}
	return nil
}

// Len returns the number of streams currently tracked, open or not.
func (r *StreamRegistry) Len() int {
	return len(r.list)
}

// Each calls fn for every tracked stream, in ascending id order.
func (r *StreamRegistry) Each(fn func(*Stream)) {
	for _, s := range r.list {
		fn(s)
	}
}

// IsStreamIDRegression reports whether id is not greater than the
// highest stream id already seen on its side, which RFC 7540 §5.1.1
// requires a receiver to treat as a connection error
// (PROTOCOL_ERROR): stream ids on each side must strictly increase.
func (r *StreamRegistry) IsStreamIDRegression(id StreamID) bool {
	if id.IsClientInitiated() {
		return id <= r.lastClientID
	}
	return id <= r.lastServerID
}
