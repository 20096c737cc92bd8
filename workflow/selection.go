package workflow

// Selection is an insertion-ordered set of ids to keep. The pinned id, when
// set, is always a member.
type Selection struct {
	pinned string
	order  []string
	index  map[string]struct{}
}

func NewSelection(pinned string) *Selection {
	s := &Selection{pinned: pinned, index: make(map[string]struct{})}
	if pinned != "" {
		s.Add(pinned)
	}
	return s
}

// Add inserts ids not already present, preserving first-seen order.
func (s *Selection) Add(ids ...string) int {
	added := 0
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.order = append(s.order, id)
		added++
	}
	return added
}

// Reset drops every member except the pinned id.
func (s *Selection) Reset() {
	s.order = s.order[:0]
	s.index = make(map[string]struct{})
	if s.pinned != "" {
		s.Add(s.pinned)
	}
}

func (s *Selection) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.order)
}

// IDs returns a copy of the members in insertion order.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.order...)
}

func (s *Selection) Pinned() string {
	return s.pinned
}
