package analyzer

import (
	"sort"

	"censorcheck/internal/model"
)

// Direction selects ascending or descending order.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// ByInteraction returns a copy of tweets stably sorted by weighted
// engagement. Ties keep their input order.
func ByInteraction(tweets []model.Tweet, w model.Weights, dir Direction) []model.Tweet {
	out := make([]model.Tweet, len(tweets))
	copy(out, tweets)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := model.InteractionScore(out[i], w), model.InteractionScore(out[j], w)
		if dir == Desc {
			return a > b
		}
		return a < b
	})
	return out
}

// ByDate returns a copy of tweets stably sorted by capture time.
func ByDate(tweets []model.Tweet, dir Direction) []model.Tweet {
	out := make([]model.Tweet, len(tweets))
	copy(out, tweets)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Desc {
			return out[i].Time > out[j].Time
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// Rank returns the 1-based position of the first tweet with id, or 0.
func Rank(tweets []model.Tweet, id int64) int {
	for i, t := range tweets {
		if t.ID == id {
			return i + 1
		}
	}
	return 0
}
