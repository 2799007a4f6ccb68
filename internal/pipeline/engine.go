package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/j3859/Africa-lens-bot/internal/content"
	"github.com/j3859/Africa-lens-bot/internal/images"
	"github.com/j3859/Africa-lens-bot/internal/metrics"
	"github.com/j3859/Africa-lens-bot/internal/selector"
)

// PostStore is the slice of storage the posting engine needs.
type PostStore interface {
	MarkStatus(itemID, status string) error
	ImageUsed(imageURL string) (bool, error)
	CreatePost(post *content.Post) error
}

// CandidateSelector picks what to post next.
type CandidateSelector interface {
	NextLanguage() (string, error)
	Select(language string, hint selector.Hint) (*content.Item, error)
}

// Generator writes the post text.
type Generator interface {
	GeneratePost(ctx context.Context, item *content.Item) (string, error)
}

// Publisher posts a photo with a caption and returns the platform id.
type Publisher interface {
	PublishPhoto(ctx context.Context, imageURL, caption string) (string, error)
}

// ImageResolver re-validates a candidate's image just before posting.
type ImageResolver interface {
	Resolve(ctx context.Context, listImageURL, articleURL, headline string) (string, error)
}

type Engine struct {
	store       PostStore
	selector    CandidateSelector
	resolver    ImageResolver
	generator   Generator
	publisher   Publisher
	maxAttempts int
}

func NewEngine(store PostStore, sel CandidateSelector, resolver ImageResolver,
	generator Generator, publisher Publisher, maxAttempts int) *Engine {
	return &Engine{
		store:       store,
		selector:    sel,
		resolver:    resolver,
		generator:   generator,
		publisher:   publisher,
		maxAttempts: maxAttempts,
	}
}

// RunCycle publishes at most one post. It walks up to maxAttempts
// candidates, skipping those whose image turns out unusable or already
// seen on the page. LLM and publish failures end the cycle: the first
// leaves the candidate pending for next hour, the second marks it
// failed because the platform call itself is broken.
func (e *Engine) RunCycle(ctx context.Context, hint selector.Hint) error {
	language, err := e.selector.NextLanguage()
	if err != nil {
		return fmt.Errorf("pick language: %w", err)
	}
	log.Printf("🗣 Posting language: %s", language)

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		item, err := e.selector.Select(language, hint)
		if err != nil {
			return fmt.Errorf("select candidate: %w", err)
		}
		if item == nil {
			log.Printf("💤 No pending candidates for %s, nothing to post", language)
			return nil
		}

		imageURL, err := e.resolver.Resolve(ctx, item.ImageURL, item.URL, item.Headline)
		if err != nil {
			if !errors.Is(err, images.ErrNoImage) {
				log.Printf("⚠️ image re-check error for %q: %v", item.Headline, err)
			}
			e.skip(item, "image no longer usable")
			continue
		}

		used, err := e.store.ImageUsed(imageURL)
		if err != nil {
			return fmt.Errorf("image uniqueness check: %w", err)
		}
		if used {
			e.skip(item, "image already posted once")
			continue
		}

		message, err := e.generator.GeneratePost(ctx, item)
		if err != nil {
			// leave the item pending, the next cycle retries it
			return fmt.Errorf("generate post: %w", err)
		}

		// Mark first so a crash between publish and bookkeeping can't
		// double-post; a publish error corrects the status below.
		if err := e.store.MarkStatus(item.ID, content.StatusPosted); err != nil {
			return fmt.Errorf("mark posted: %w", err)
		}

		fbPostID, err := e.publisher.PublishPhoto(ctx, imageURL, message)
		if err != nil {
			if markErr := e.store.MarkStatus(item.ID, content.StatusFailed); markErr != nil {
				log.Printf("❌ can't mark %s failed: %v", item.ID, markErr)
			}
			metrics.Global.IncrementPostsFailed()
			return fmt.Errorf("publish: %w", err)
		}

		post := &content.Post{
			ContentID:   item.ID,
			FBPostID:    fbPostID,
			Message:     message,
			ImageURL:    imageURL,
			Language:    item.Language,
			CountryCode: item.CountryCode,
			Niche:       item.Niche,
		}
		if err := e.store.CreatePost(post); err != nil {
			log.Printf("⚠️ post published (%s) but record not saved: %v", fbPostID, err)
		}
		metrics.Global.IncrementPostsPublished()
		log.Printf("🎉 Published %q as %s (attempt %d)", item.Headline, fbPostID, attempt)
		return nil
	}

	log.Printf("💤 All %d candidates skipped, nothing posted this cycle", e.maxAttempts)
	return nil
}

func (e *Engine) skip(item *content.Item, reason string) {
	log.Printf("⏭ Skipping %q: %s", item.Headline, reason)
	if err := e.store.MarkStatus(item.ID, content.StatusSkippedNoImage); err != nil {
		log.Printf("❌ can't mark %s skipped: %v", item.ID, err)
	}
	metrics.Global.IncrementCandidatesSkipped()
}
