package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"censorcheck/internal/messages"
	"censorcheck/internal/model"
)

// AnalysisType identifies the basic reply analysis.
const AnalysisType = "basic"

// ErrPairMissing marks an original-reply ID whose timeline tweet or reply
// page was not captured. Such pairs are skipped, not failed.
var ErrPairMissing = errors.New("original tweet or reply page not captured")

// Report classifies every captured reply of a search run.
type Report struct {
	run         model.SearchRun
	bundle      messages.Bundle
	parallelism int

	items      []Item
	skipped    int
	attributes *model.Attributes
}

type Option func(*Report)

// WithParallelism builds up to n items at once. Item order is unaffected.
func WithParallelism(n int) Option {
	return func(r *Report) {
		if n > 0 {
			r.parallelism = n
		}
	}
}

func NewReport(run model.SearchRun, bundle messages.Bundle, opts ...Option) *Report {
	if bundle == nil {
		bundle = messages.New(nil)
	}
	r := &Report{run: run, bundle: bundle, parallelism: 1, attributes: model.NewAttributes()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run rebuilds the item list from the search run. Calling it again on the
// same input yields the same items.
func (r *Report) Run(ctx context.Context) error {
	ids := r.run.OriginalReplyIDs()
	slots := make([]*Item, len(ids))

	build := func(i int) error {
		original, page, err := r.pairFor(ids[i])
		if errors.Is(err, ErrPairMissing) {
			return nil
		}
		if err != nil {
			return err
		}
		it := BuildItem(original, page)
		slots[i] = &it
		return nil
	}

	if r.parallelism <= 1 {
		for i := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := build(i); err != nil {
				return err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.parallelism)
		for i := range ids {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return build(i)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	items := make([]Item, 0, len(ids))
	for _, it := range slots {
		if it != nil {
			items = append(items, *it)
		}
	}
	r.items = items
	r.skipped = len(ids) - len(items)
	return nil
}

func (r *Report) pairFor(id int64) (model.Tweet, model.ReplyPage, error) {
	original, ok := r.run.Timeline.TweetByID(id)
	if !ok {
		return model.Tweet{}, model.ReplyPage{}, fmt.Errorf("tweet %d: %w", id, ErrPairMissing)
	}
	page, ok := r.run.OriginalReply(id)
	if !ok {
		return model.Tweet{}, model.ReplyPage{}, fmt.Errorf("reply page %d: %w", id, ErrPairMissing)
	}
	return original, page, nil
}

func (r *Report) AnalysisType() string { return AnalysisType }

func (r *Report) Name() string {
	return r.bundle.Format(messages.ReportName, r.run.InitiatingUser.Handle, r.startTime())
}

func (r *Report) Description() string {
	return r.bundle.Format(messages.ReportDescription, r.run.InitiatingUser.Handle, r.startTime())
}

func (r *Report) startTime() string { return r.run.StartTime.UTC().Format(time.RFC3339) }

func (r *Report) SearchRun() model.SearchRun { return r.run }

// Attributes is free for callers to annotate; Run leaves it alone.
func (r *Report) Attributes() *model.Attributes { return r.attributes }

// Items returns the items from the last Run, in ascending original-reply ID order.
func (r *Report) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// Skipped is the number of IDs the last Run had no captured pair for.
func (r *Report) Skipped() int { return r.skipped }

// Record is the storable, exportable form of a report.
type Record struct {
	ID           string            `json:"id"`
	AnalysisType string            `json:"analysis_type"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Handle       string            `json:"handle"`
	StartTime    time.Time         `json:"start_time"`
	CreatedAt    time.Time         `json:"created_at"`
	Attributes   *model.Attributes `json:"attributes"`
	Items        []ItemRecord      `json:"items"`
}

type ItemRecord struct {
	OriginalTweetID           int64             `json:"original_tweet_id"`
	Rank                      int               `json:"rank"`
	ExpectedRankByInteraction int               `json:"expected_rank_by_interaction"`
	ExpectedRankByDate        int               `json:"expected_rank_by_date"`
	Status                    Status            `json:"status"`
	Attributes                *model.Attributes `json:"attributes"`
}

// Record snapshots the report under a fresh ID.
func (r *Report) Record(now time.Time) Record {
	rec := Record{
		ID:           uuid.NewString(),
		AnalysisType: r.AnalysisType(),
		Name:         r.Name(),
		Description:  r.Description(),
		Handle:       r.run.InitiatingUser.Handle,
		StartTime:    r.run.StartTime.UTC(),
		CreatedAt:    now.UTC(),
		Attributes:   r.attributes.Clone(),
		Items:        make([]ItemRecord, 0, len(r.items)),
	}
	for _, it := range r.items {
		rec.Items = append(rec.Items, ItemRecord{
			OriginalTweetID:           it.OriginalTweetID,
			Rank:                      it.Rank,
			ExpectedRankByInteraction: it.ExpectedRankByInteraction,
			ExpectedRankByDate:        it.ExpectedRankByDate,
			Status:                    it.Status,
			Attributes:                it.Attributes(),
		})
	}
	return rec
}
