package model

// Weights boost each engagement counter when scoring interaction.
type Weights struct {
	Replies   int64
	Retweets  int64
	Favorites int64
}

// DefaultWeights favour replies over retweets over favorites.
var DefaultWeights = Weights{Replies: 4, Retweets: 2, Favorites: 1}

// InteractionScore is the weighted engagement sum of a tweet.
func InteractionScore(t Tweet, w Weights) int64 {
	return t.ReplyCount*w.Replies + t.RetweetCount*w.Retweets + t.FavoriteCount*w.Favorites
}

// NewerThan counts tweets whose capture time is strictly after ref's.
func NewerThan(ref Tweet, tweets []Tweet) int {
	n := 0
	for _, t := range tweets {
		if t.Time > ref.Time {
			n++
		}
	}
	return n
}
