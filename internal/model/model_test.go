package model

import (
	"encoding/json"
	"testing"
	"time"
)

func attrs(kv ...string) *Attributes {
	a := NewAttributes()
	for i := 0; i+1 < len(kv); i += 2 {
		a.Set(kv[i], kv[i+1])
	}
	return a
}

func TestNewTweetDerivesTypedFields(t *testing.T) {
	tw := NewTweet(7, TweetUser{Handle: "alice"}, attrs(
		AttrReplyCount, "3", AttrRetweetCount, "x", AttrTime, "1500", AttrQuality, "LowQuality",
	))
	if tw.ReplyCount != 3 || tw.RetweetCount != 0 || tw.FavoriteCount != 0 {
		t.Fatalf("counters: %+v", tw)
	}
	if tw.Time != 1500 {
		t.Fatalf("time: %d", tw.Time)
	}
	if tw.SupposedQuality() != QualityLow {
		t.Fatalf("quality: %v", tw.SupposedQuality())
	}
	if _, ok := tw.Attribute(AttrFavoriteCount); ok {
		t.Fatalf("favoritecount should be absent")
	}
}

func TestAbsentAttributeDiffersFromEmpty(t *testing.T) {
	tw := NewTweet(1, TweetUser{}, attrs(AttrQuality, ""))
	v, ok := tw.Attribute(AttrQuality)
	if !ok || v != "" {
		t.Fatalf("expected present empty quality, got %q %v", v, ok)
	}
	if _, ok := tw.Attribute(AttrTime); ok {
		t.Fatalf("time should be absent")
	}
}

func TestMatchQualityOrder(t *testing.T) {
	cases := map[string]SupposedQuality{
		"":                  QualityUnknown,
		"HighQuality":       QualityHigh,
		"low_quality":       QualityLow,
		"AbusiveQuality":    QualityAbusive,
		"something else":    QualityUnknown,
		"high but also low": QualityHigh,
	}
	for in, want := range cases {
		if got := MatchQuality(in); got != want {
			t.Fatalf("MatchQuality(%q)=%v want %v", in, got, want)
		}
	}
	if QualityHigh.Censored() || !QualityLow.Censored() {
		t.Fatalf("censored flags wrong")
	}
}

func TestCollectionLookups(t *testing.T) {
	c := NewTweetCollection([]Tweet{
		NewTweet(10, TweetUser{}, nil),
		NewTweet(20, TweetUser{}, nil),
		NewTweet(10, TweetUser{Handle: "dup"}, nil),
	})
	if c.OrderByID(20) != 2 {
		t.Fatalf("order of 20: %d", c.OrderByID(20))
	}
	if c.OrderByID(99) != 0 {
		t.Fatalf("missing id should be 0")
	}
	tw, ok := c.TweetByID(10)
	if !ok || tw.User.Handle != "" {
		t.Fatalf("first occurrence should win: %+v", tw)
	}
	got := c.Tweets()
	got[0] = Tweet{ID: 1}
	if c.OrderByID(10) != 1 {
		t.Fatalf("Tweets must return a copy")
	}
}

func TestSearchRunIDsAscending(t *testing.T) {
	run := NewSearchRun(TweetUser{Handle: "me"}, time.Unix(0, 0), NewTweetCollection(nil), map[int64]ReplyPage{
		30: {}, 10: {}, 20: {},
	})
	ids := run.OriginalReplyIDs()
	if len(ids) != 3 || ids[0] != 10 || ids[1] != 20 || ids[2] != 30 {
		t.Fatalf("ids: %v", ids)
	}
	if _, ok := run.OriginalReply(40); ok {
		t.Fatalf("unexpected page for 40")
	}
}

func TestAttributesJSONKeepsOrder(t *testing.T) {
	a := attrs("z", "1", "a", "2", "m", "3")
	a.Set("z", "9")
	b, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"z":"9","a":"2","m":"3"}` {
		t.Fatalf("json: %s", b)
	}
	var back Attributes
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	keys := back.Keys()
	if len(keys) != 3 || keys[0] != "z" || keys[2] != "m" || back.Value("z") != "9" {
		t.Fatalf("roundtrip: %v", keys)
	}
}

func TestInteractionScoreAndNewer(t *testing.T) {
	ref := NewTweet(1, TweetUser{}, attrs(AttrTime, "100"))
	a := NewTweet(2, TweetUser{}, attrs(AttrTime, "100", AttrReplyCount, "1", AttrRetweetCount, "1", AttrFavoriteCount, "1"))
	b := NewTweet(3, TweetUser{}, attrs(AttrTime, "101"))
	if s := InteractionScore(a, DefaultWeights); s != 7 {
		t.Fatalf("score: %d", s)
	}
	if n := NewerThan(ref, []Tweet{ref, a, b}); n != 1 {
		t.Fatalf("newer: %d", n)
	}
}
