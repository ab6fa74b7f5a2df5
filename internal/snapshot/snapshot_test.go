package snapshot

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestDecodeFixture(t *testing.T) {
	f, err := os.Open("testdata/run.json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	run, err := Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if run.InitiatingUser.Handle != "alice" || run.Timeline.Len() != 3 {
		t.Fatalf("run: %+v", run.InitiatingUser)
	}
	ids := run.OriginalReplyIDs()
	if len(ids) != 4 || ids[0] != 100 || ids[3] != 999 {
		t.Fatalf("ids: %v", ids)
	}
	page, ok := run.OriginalReply(100)
	if !ok || page.NumReplies != 4 || !page.Complete || page.Tweets.OrderByID(100) != 4 {
		t.Fatalf("page 100: %+v", page)
	}
	first, _ := run.Timeline.TweetByID(100)
	if !first.IsReply() || first.RepliedToTweetID() != 10 || first.RepliedToHandle() != "bob" {
		t.Fatalf("reply linkage: %s", first.Summary())
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	cases := []string{
		`not json`,
		`{"initiatingUser":{"handle":"a"},"timeline":[]}`,
		`{"initiatingUser":{"handle":"a"},"startTime":"2026-01-01T00:00:00Z","timeline":[{"id":0,"user":{"handle":"x"}}]}`,
		`{"initiatingUser":{"handle":""},"startTime":"2026-01-01T00:00:00Z"}`,
	}
	for _, c := range cases {
		if _, err := Decode(strings.NewReader(c)); !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid for %s, got %v", c, err)
		}
	}
}

func TestEncodeDecodeKeepsAttributeOrder(t *testing.T) {
	f, err := os.Open("testdata/run.json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	run, err := Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, run); err != nil {
		t.Fatal(err)
	}
	back, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	tw, _ := back.Timeline.TweetByID(100)
	keys := tw.Attributes().Keys()
	if len(keys) != 5 || keys[0] != "time" || keys[4] != "repliedtohandle" {
		t.Fatalf("keys: %v", keys)
	}
	if !back.StartTime.Equal(run.StartTime) {
		t.Fatalf("start time changed")
	}
}
