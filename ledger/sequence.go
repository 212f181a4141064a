package ledger

// Sequence allocates strictly increasing ids with no reuse. It has a single
// owning engine and is only touched under that engine's lock; it is not safe
// for unsynchronized sharing.
type Sequence struct {
	next uint64
}

// NewSequence creates a sequence whose first allocated id is start.
func NewSequence(start uint64) *Sequence {
	return &Sequence{next: start}
}

// Next returns the next id and advances the sequence.
func (s *Sequence) Next() uint64 {
	id := s.next
	s.next++
	return id
}

// Peek returns the id Next would allocate, without advancing.
func (s *Sequence) Peek() uint64 {
	return s.next
}
