package game

import (
	"math/rand"

	"brainbuzz/internal/domain"
)

// Picker draws items for consecutive rounds of one session.
type Picker struct {
	selection  Selection
	exhaustion Exhaustion
	rnd        *rand.Rand
	used       map[string]struct{}
	next       int
}

func NewPicker(selection Selection, exhaustion Exhaustion, rnd *rand.Rand) *Picker {
	return &Picker{
		selection:  selection,
		exhaustion: exhaustion,
		rnd:        rnd,
		used:       make(map[string]struct{}),
	}
}

// Next returns the item for the next round. ok is false when the pool is
// exhausted and the policy ends the session.
func (p *Picker) Next(pool []domain.QuizItem) (domain.QuizItem, bool) {
	if len(pool) == 0 {
		return domain.QuizItem{}, false
	}
	if p.selection == SelectSequential {
		if p.next >= len(pool) {
			if p.exhaustion == EndSession {
				return domain.QuizItem{}, false
			}
			p.next = 0
		}
		item := pool[p.next]
		p.next++
		return item, true
	}

	available := make([]domain.QuizItem, 0, len(pool))
	for _, item := range pool {
		if _, seen := p.used[item.ID]; !seen {
			available = append(available, item)
		}
	}
	if len(available) == 0 {
		if p.exhaustion == EndSession {
			return domain.QuizItem{}, false
		}
		p.used = make(map[string]struct{})
		available = pool
	}
	item := available[p.rnd.Intn(len(available))]
	p.used[item.ID] = struct{}{}
	return item, true
}

// Used reports how many distinct items were drawn since the last reset.
func (p *Picker) Used() int {
	if p.selection == SelectSequential {
		return p.next
	}
	return len(p.used)
}
