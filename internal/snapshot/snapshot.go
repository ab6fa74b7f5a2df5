package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator"

	"censorcheck/internal/model"
)

// ErrInvalid wraps every decode or validation failure.
var ErrInvalid = errors.New("invalid snapshot")

var validate = validator.New()

// File is the on-disk form of a captured search run.
type File struct {
	InitiatingUser User                `json:"initiatingUser" validate:"required"`
	StartTime      time.Time           `json:"startTime" validate:"required"`
	Timeline       []Tweet             `json:"timeline" validate:"dive"`
	ReplyPages     map[int64]ReplyPage `json:"replyPages" validate:"dive"`
}

type User struct {
	ID          int64  `json:"id"`
	Handle      string `json:"handle" validate:"required"`
	DisplayName string `json:"displayName,omitempty"`
	Verified    bool   `json:"verified,omitempty"`
}

type Tweet struct {
	ID         int64             `json:"id" validate:"required"`
	User       User              `json:"user"`
	Attributes *model.Attributes `json:"attributes"`
	Classes    []string          `json:"classes,omitempty"`
	Mentions   []string          `json:"mentions,omitempty"`
}

// ReplyPage mirrors model.ReplyPage. NumReplies is not range-checked: a zero
// or negative total is a valid, if degenerate, capture.
type ReplyPage struct {
	NumReplies int     `json:"numReplies"`
	Complete   bool    `json:"complete"`
	Tweets     []Tweet `json:"tweets" validate:"dive"`
}

// Decode reads and validates a snapshot file.
func Decode(r io.Reader) (model.SearchRun, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return model.SearchRun{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return f.SearchRun()
}

// SearchRun validates f and converts it to the model.
func (f File) SearchRun() (model.SearchRun, error) {
	if err := validate.Struct(f); err != nil {
		return model.SearchRun{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	pages := make(map[int64]model.ReplyPage, len(f.ReplyPages))
	for id, p := range f.ReplyPages {
		pages[id] = model.ReplyPage{
			NumReplies: p.NumReplies,
			Complete:   p.Complete,
			Tweets:     toCollection(p.Tweets),
		}
	}
	return model.NewSearchRun(f.InitiatingUser.model(), f.StartTime, toCollection(f.Timeline), pages), nil
}

// Encode writes run in the snapshot format.
func Encode(w io.Writer, run model.SearchRun) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(FromSearchRun(run))
}

func FromSearchRun(run model.SearchRun) File {
	f := File{
		InitiatingUser: fromUser(run.InitiatingUser),
		StartTime:      run.StartTime.UTC(),
		Timeline:       fromTweets(run.Timeline.Tweets()),
		ReplyPages:     make(map[int64]ReplyPage),
	}
	for _, id := range run.OriginalReplyIDs() {
		p, _ := run.OriginalReply(id)
		f.ReplyPages[id] = ReplyPage{
			NumReplies: p.NumReplies,
			Complete:   p.Complete,
			Tweets:     fromTweets(p.Tweets.Tweets()),
		}
	}
	return f
}

func (u User) model() model.TweetUser {
	return model.TweetUser{ID: u.ID, Handle: u.Handle, DisplayName: u.DisplayName, Verified: u.Verified}
}

func fromUser(u model.TweetUser) User {
	return User{ID: u.ID, Handle: u.Handle, DisplayName: u.DisplayName, Verified: u.Verified}
}

func toCollection(in []Tweet) model.TweetCollection {
	tweets := make([]model.Tweet, 0, len(in))
	for _, t := range in {
		mt := model.NewTweet(t.ID, t.User.model(), t.Attributes)
		mt.Classes = t.Classes
		mt.Mentions = t.Mentions
		tweets = append(tweets, mt)
	}
	return model.NewTweetCollection(tweets)
}

func fromTweets(in []model.Tweet) []Tweet {
	out := make([]Tweet, 0, len(in))
	for _, t := range in {
		out = append(out, Tweet{
			ID:         t.ID,
			User:       fromUser(t.User),
			Attributes: t.Attributes(),
			Classes:    t.Classes,
			Mentions:   t.Mentions,
		})
	}
	return out
}
