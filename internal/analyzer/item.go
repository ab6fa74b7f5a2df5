package analyzer

import (
	"strconv"
	"strings"

	"censorcheck/internal/model"
)

// Diagnostic attribute keys recorded on every item.
const (
	KeyOriginalTweetID   = "originalTweetID"
	KeyTotalReplies      = "total replies"
	KeyCapturedReplies   = "numCapturedReplies"
	KeyOriginalTweets    = "originaltweets"
	KeyNewerTweets       = "numNewerTweets"
	KeyPercentNewer      = "percentNewerTweets"
	KeyPercentComplete   = "percentComplete"
	KeyFoundOriginal     = "foundOriginalTweet"
	KeyNotFoundStatus    = "tweetNotFoundStatus"
	KeyInteractionTweets = "tweetsInInteractionOrder"
	KeyDateTweets        = "tweetsInDateOrder"
	KeyPageOrder         = "pageOrder"
	KeyInteractionOrder  = "interactionOrder"
	KeyDateOrder         = "dateOrder"
	KeyPercentVsInteract = "percentComparedToInteractionOrder"
	KeyPercentVsDate     = "percentComparedToDateOrder"
	KeyTweetStatus       = "tweetStatus"

	notFoundSummary = "IS NULL"
)

// Item is the verdict for one original tweet on its parent's reply page.
type Item struct {
	OriginalTweetID           int64
	Rank                      int
	ExpectedRankByInteraction int
	ExpectedRankByDate        int
	Status                    Status

	attrs *model.Attributes
}

// Attributes returns the evidence recorded while building the item.
func (it Item) Attributes() *model.Attributes { return it.attrs.Clone() }

// BuildItem classifies where original sits on page. Ranks stay 0 when the
// tweet is not on the page.
func BuildItem(original model.Tweet, page model.ReplyPage) Item {
	it := Item{OriginalTweetID: original.ID, attrs: model.NewAttributes()}
	set := it.attrs.Set

	tweets := page.Tweets.Tweets()
	total := page.NumReplies

	set(KeyOriginalTweetID, strconv.FormatInt(original.ID, 10))
	set(KeyTotalReplies, strconv.Itoa(total))
	set(KeyCapturedReplies, strconv.Itoa(len(tweets)))
	set(KeyOriginalTweets, summarize(tweets))

	newer := model.NewerThan(original, tweets)
	pctNewer := PercentOf(newer, total)
	pctComplete := PercentOf(len(tweets), total)
	set(KeyNewerTweets, strconv.Itoa(newer))
	set(KeyPercentNewer, pctNewer.String())
	set(KeyPercentComplete, pctComplete.String())

	found, ok := page.Tweets.TweetByID(original.ID)
	if !ok {
		set(KeyFoundOriginal, notFoundSummary)
		it.Status = ClassifyNotFound(NotFoundEvidence{
			Complete:        page.Complete,
			PercentNewer:    pctNewer,
			PercentComplete: pctComplete,
		})
		set(KeyNotFoundStatus, string(it.Status))
		return it
	}
	set(KeyFoundOriginal, found.Summary())

	byInteraction := ByInteraction(tweets, model.DefaultWeights, Desc)
	byDate := ByDate(tweets, Asc)
	set(KeyInteractionTweets, summarize(byInteraction))
	set(KeyDateTweets, summarize(byDate))

	pageOrder := page.Tweets.OrderByID(original.ID)
	interactionOrder := Rank(byInteraction, original.ID)
	dateOrder := Rank(byDate, original.ID)
	vsInteraction := RankDiff(pageOrder, interactionOrder, total)
	vsDate := RankDiff(pageOrder, dateOrder, total)

	set(KeyPageOrder, strconv.Itoa(pageOrder))
	set(KeyInteractionOrder, strconv.Itoa(interactionOrder))
	set(KeyDateOrder, strconv.Itoa(dateOrder))
	set(KeyPercentVsInteract, vsInteraction.String())
	set(KeyPercentVsDate, vsDate.String())

	it.Rank = pageOrder
	it.ExpectedRankByInteraction = interactionOrder
	it.ExpectedRankByDate = dateOrder
	it.Status = ClassifyFound(FoundEvidence{
		Quality:       found.Quality,
		PageOrder:     pageOrder,
		VsInteraction: vsInteraction,
		VsDate:        vsDate,
	})
	set(KeyTweetStatus, string(it.Status))
	return it
}

func summarize(tweets []model.Tweet) string {
	lines := make([]string, 0, len(tweets))
	for _, t := range tweets {
		lines = append(lines, t.Summary())
	}
	return strings.Join(lines, "\n")
}
