package genetic

// rankEntry pairs a population slot with its score for ranking.
type rankEntry struct {
	score float64
	slot  int
}

// ranking is a binary min-heap over population slots, ordered by score
// (lower is better). Capacity is fixed at construction so a generation
// never allocates.
type ranking struct {
	entries []rankEntry
	n       int
}

func newRanking(capacity int) *ranking {
	return &ranking{entries: make([]rankEntry, capacity)}
}

func (r *ranking) reset() {
	r.n = 0
}

func (r *ranking) len() int {
	return r.n
}

func (r *ranking) push(score float64, slot int) {
	i := r.n
	r.entries[i] = rankEntry{score: score, slot: slot}
	r.n++
	for i > 0 {
		parent := (i - 1) / 2
		if r.entries[parent].score <= r.entries[i].score {
			break
		}
		r.entries[parent], r.entries[i] = r.entries[i], r.entries[parent]
		i = parent
	}
}

// pop removes and returns the entry with the lowest score.
func (r *ranking) pop() rankEntry {
	top := r.entries[0]
	r.n--
	r.entries[0] = r.entries[r.n]
	i := 0
	for {
		left := 2*i + 1
		if left >= r.n {
			break
		}
		least := left
		if right := left + 1; right < r.n && r.entries[right].score < r.entries[left].score {
			least = right
		}
		if r.entries[i].score <= r.entries[least].score {
			break
		}
		r.entries[i], r.entries[least] = r.entries[least], r.entries[i]
		i = least
	}
	return top
}
