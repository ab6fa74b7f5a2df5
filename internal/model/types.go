package model

import (
	"fmt"
	"sort"
	"time"

	"censorcheck/internal/util"
)

// Attribute keys read from captured tweets.
const (
	AttrTime             = "time"
	AttrQuality          = "quality"
	AttrReplyCount       = "replycount"
	AttrRetweetCount     = "retweetcount"
	AttrFavoriteCount    = "favoritecount"
	AttrTweetText        = "tweettext"
	AttrIsReplyTo        = "isreplyto"
	AttrRepliedToTweetID = "repliedtotweetid"
	AttrRepliedToHandle  = "repliedtohandle"
)

// TweetUser represents the subset of user fields kept with a captured tweet.
type TweetUser struct {
	ID          int64
	Handle      string
	DisplayName string
	Verified    bool
}

// Tweet is a captured tweet. The typed fields are derived from Attributes
// once, in NewTweet; Attributes stays as the raw capture for export.
type Tweet struct {
	ID       int64
	User     TweetUser
	Classes  []string
	Mentions []string

	ReplyCount    int64
	RetweetCount  int64
	FavoriteCount int64
	Time          int64
	Quality       string

	attrs *Attributes
}

// NewTweet builds a tweet and derives its typed fields from attrs.
// Missing or non-numeric counters and timestamps become 0.
func NewTweet(id int64, user TweetUser, attrs *Attributes) Tweet {
	if attrs == nil {
		attrs = NewAttributes()
	}
	return Tweet{
		ID:            id,
		User:          user,
		ReplyCount:    util.ParseIntDefault(attrs.Value(AttrReplyCount)),
		RetweetCount:  util.ParseIntDefault(attrs.Value(AttrRetweetCount)),
		FavoriteCount: util.ParseIntDefault(attrs.Value(AttrFavoriteCount)),
		Time:          util.ParseIntDefault(attrs.Value(AttrTime)),
		Quality:       attrs.Value(AttrQuality),
		attrs:         attrs.Clone(),
	}
}

// Attribute returns a raw captured attribute and whether it was observed.
func (t Tweet) Attribute(key string) (string, bool) { return t.attrs.Get(key) }

// Attributes returns a copy of the raw attribute bag.
func (t Tweet) Attributes() *Attributes { return t.attrs.Clone() }

func (t Tweet) SupposedQuality() SupposedQuality { return MatchQuality(t.Quality) }

// IsReply reports whether the capture marked the tweet as a reply.
func (t Tweet) IsReply() bool {
	v, _ := t.attrs.Get(AttrIsReplyTo)
	return v == "true"
}

// RepliedToTweetID returns the parent tweet ID, or 0 if this is not a reply.
func (t Tweet) RepliedToTweetID() int64 {
	return util.ParseIntDefault(t.attrs.Value(AttrRepliedToTweetID))
}

// RepliedToHandle returns the parent tweet's handle, or "" if this is not a reply.
func (t Tweet) RepliedToHandle() string { return t.attrs.Value(AttrRepliedToHandle) }

// Summary is a one-line description used in diagnostics.
func (t Tweet) Summary() string {
	text := util.Truncate(util.NormalizeWhitespace(t.attrs.Value(AttrTweetText)), 60)
	return fmt.Sprintf("%d @%s time=%d replies=%d retweets=%d favorites=%d quality=%q %s",
		t.ID, t.User.Handle, t.Time, t.ReplyCount, t.RetweetCount, t.FavoriteCount, t.Quality, text)
}

// TweetCollection is the ordered list of tweets captured from one page.
// Position is 1-based and reflects presentation order on the page.
type TweetCollection struct {
	tweets []Tweet
	index  map[int64]int
}

// NewTweetCollection copies tweets into a collection. When IDs repeat, the
// first occurrence is the one found by lookups.
func NewTweetCollection(tweets []Tweet) TweetCollection {
	c := TweetCollection{
		tweets: make([]Tweet, len(tweets)),
		index:  make(map[int64]int, len(tweets)),
	}
	copy(c.tweets, tweets)
	for i, t := range c.tweets {
		if _, ok := c.index[t.ID]; !ok {
			c.index[t.ID] = i
		}
	}
	return c
}

// Tweets returns a copy of the tweets in page order.
func (c TweetCollection) Tweets() []Tweet {
	out := make([]Tweet, len(c.tweets))
	copy(out, c.tweets)
	return out
}

func (c TweetCollection) Len() int { return len(c.tweets) }

func (c TweetCollection) TweetByID(id int64) (Tweet, bool) {
	i, ok := c.index[id]
	if !ok {
		return Tweet{}, false
	}
	return c.tweets[i], true
}

// OrderByID returns the 1-based page position of id, or 0 when absent.
func (c TweetCollection) OrderByID(id int64) int {
	i, ok := c.index[id]
	if !ok {
		return 0
	}
	return i + 1
}

// ReplyPage is a snapshot of the replies under one tweet.
type ReplyPage struct {
	// NumReplies is the platform-reported total, which may exceed what was captured.
	NumReplies int
	// Complete is true only when the capture is believed to hold every reply.
	Complete bool
	Tweets   TweetCollection
}

// SearchRun is one capture session: the user's timeline and, for timeline
// tweets that are replies, the reply page they appear in.
type SearchRun struct {
	InitiatingUser TweetUser
	StartTime      time.Time
	Timeline       TweetCollection

	replies map[int64]ReplyPage
}

func NewSearchRun(user TweetUser, start time.Time, timeline TweetCollection, replies map[int64]ReplyPage) SearchRun {
	r := SearchRun{
		InitiatingUser: user,
		StartTime:      start,
		Timeline:       timeline,
		replies:        make(map[int64]ReplyPage, len(replies)),
	}
	for id, p := range replies {
		r.replies[id] = p
	}
	return r
}

// OriginalReplyIDs returns the IDs with a captured reply page, ascending.
func (r SearchRun) OriginalReplyIDs() []int64 {
	ids := make([]int64, 0, len(r.replies))
	for id := range r.replies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r SearchRun) OriginalReply(id int64) (ReplyPage, bool) {
	p, ok := r.replies[id]
	return p, ok
}
