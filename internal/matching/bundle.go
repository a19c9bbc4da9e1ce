// Package matching scores a job posting against a resume.
//
// The score blends two signals: a pairwise relevance model that reads both texts
// together, and an entity-weighted similarity that extracts skills, experience
// statements and education from each document and compares the buckets with a
// shared embedding encoder.
package matching

// EntityBundle is the extraction result for one document. Each bucket holds
// unique strings in first-seen order.
type EntityBundle struct {
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
}

// IsEmpty reports whether all three buckets are empty.
func (b EntityBundle) IsEmpty() bool {
	return len(b.Skills) == 0 && len(b.Experience) == 0 && len(b.Education) == 0
}

// orderedSet keeps the first occurrence of every string.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *orderedSet) Add(item string) {
	if _, ok := s.seen[item]; ok {
		return
	}
	s.seen[item] = struct{}{}
	s.items = append(s.items, item)
}

func (s *orderedSet) Items() []string {
	return s.items
}
