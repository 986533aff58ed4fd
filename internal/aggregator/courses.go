package aggregator

import "github.com/intelligrit/room-index/internal/model"

// courseSet keeps unique courses in insertion order.
type courseSet struct {
	seen  map[model.Course]struct{}
	order []model.Course
	total int
}

func newCourseSet() *courseSet {
	return &courseSet{seen: make(map[model.Course]struct{})}
}

// add inserts c and reports whether it was new.
func (s *courseSet) add(c model.Course) bool {
	s.total++
	if _, ok := s.seen[c]; ok {
		return false
	}
	s.seen[c] = struct{}{}
	s.order = append(s.order, c)
	return true
}

func (s *courseSet) len() int { return len(s.order) }

// duplicates is the number of insertions that were already present.
func (s *courseSet) duplicates() int { return s.total - len(s.order) }

func (s *courseSet) courses() []model.Course { return s.order }
