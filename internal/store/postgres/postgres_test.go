package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"censorcheck/internal/analyzer"
	"censorcheck/internal/model"
)

func TestSaveAndListReports(t *testing.T) {
	dsn := os.Getenv("CENSORCHECK_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CENSORCHECK_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := New(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	orig := model.NewTweet(1, model.TweetUser{Handle: "alice"}, nil)
	run := model.NewSearchRun(model.TweetUser{Handle: "alice"}, time.Now(), model.NewTweetCollection([]model.Tweet{orig}),
		map[int64]model.ReplyPage{1: {NumReplies: 1, Tweets: model.NewTweetCollection([]model.Tweet{orig})}})
	r := analyzer.NewReport(run, nil)
	if err := r.Run(ctx); err != nil {
		t.Fatal(err)
	}
	rec := r.Record(time.Now())
	if err := s.SaveReport(ctx, 1, rec); err != nil {
		t.Fatal(err)
	}
	rows, err := s.ListReports(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, row := range rows {
		if row.ID == rec.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("report %s not listed", rec.ID)
	}
}
