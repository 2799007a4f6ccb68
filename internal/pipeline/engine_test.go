package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/j3859/Africa-lens-bot/internal/content"
	"github.com/j3859/Africa-lens-bot/internal/images"
	"github.com/j3859/Africa-lens-bot/internal/selector"
)

type fakePostStore struct {
	statuses   map[string]string
	usedImages map[string]bool
	posts      []*content.Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{statuses: map[string]string{}, usedImages: map[string]bool{}}
}

func (f *fakePostStore) MarkStatus(itemID, status string) error {
	f.statuses[itemID] = status
	return nil
}

func (f *fakePostStore) ImageUsed(imageURL string) (bool, error) {
	return f.usedImages[imageURL], nil
}

func (f *fakePostStore) CreatePost(post *content.Post) error {
	f.posts = append(f.posts, post)
	return nil
}

type fakeSelector struct {
	queue []*content.Item
	calls int
}

func (f *fakeSelector) NextLanguage() (string, error) { return content.LangFrench, nil }

func (f *fakeSelector) Select(language string, hint selector.Hint) (*content.Item, error) {
	f.calls++
	if len(f.queue) == 0 {
		return nil, nil
	}
	item := f.queue[0]
	f.queue = f.queue[1:]
	return item, nil
}

type fakeResolver struct {
	bad map[string]bool
}

func (f *fakeResolver) Resolve(ctx context.Context, listImageURL, articleURL, headline string) (string, error) {
	if f.bad[listImageURL] {
		return "", images.ErrNoImage
	}
	return listImageURL, nil
}

type fakeGenerator struct {
	err error
}

func (f *fakeGenerator) GeneratePost(ctx context.Context, item *content.Item) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "post about " + item.Headline, nil
}

type fakePublisher struct {
	err   error
	calls int
}

func (f *fakePublisher) PublishPhoto(ctx context.Context, imageURL, caption string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("page_%d", f.calls), nil
}

func item(id, image string) *content.Item {
	return &content.Item{ID: id, Headline: "headline " + id, ImageURL: image, Language: content.LangFrench}
}

func TestRunCycleSkipsBadImageThenPosts(t *testing.T) {
	store := newFakePostStore()
	sel := &fakeSelector{queue: []*content.Item{item("a", "bad.jpg"), item("b", "good.jpg")}}
	resolver := &fakeResolver{bad: map[string]bool{"bad.jpg": true}}
	pub := &fakePublisher{}

	e := NewEngine(store, sel, resolver, &fakeGenerator{}, pub, 5)
	if err := e.RunCycle(context.Background(), selector.Hint{}); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if store.statuses["a"] != content.StatusSkippedNoImage {
		t.Errorf("item a should be skipped_no_image, got %q", store.statuses["a"])
	}
	if store.statuses["b"] != content.StatusPosted {
		t.Errorf("item b should be posted, got %q", store.statuses["b"])
	}
	if len(store.posts) != 1 || store.posts[0].ImageURL != "good.jpg" {
		t.Errorf("expected one post record with good.jpg, got %+v", store.posts)
	}
}

func TestRunCycleSkipsReusedImage(t *testing.T) {
	store := newFakePostStore()
	store.usedImages["seen.jpg"] = true
	sel := &fakeSelector{queue: []*content.Item{item("a", "seen.jpg"), item("b", "new.jpg")}}

	e := NewEngine(store, sel, &fakeResolver{}, &fakeGenerator{}, &fakePublisher{}, 5)
	if err := e.RunCycle(context.Background(), selector.Hint{}); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if store.statuses["a"] != content.StatusSkippedNoImage {
		t.Errorf("reused image should skip the item, got %q", store.statuses["a"])
	}
	if store.statuses["b"] != content.StatusPosted {
		t.Errorf("item b should be posted, got %q", store.statuses["b"])
	}
}

func TestRunCyclePublishFailureIsTerminal(t *testing.T) {
	store := newFakePostStore()
	sel := &fakeSelector{queue: []*content.Item{item("a", "a.jpg"), item("b", "b.jpg")}}
	pub := &fakePublisher{err: errors.New("graph API down")}

	e := NewEngine(store, sel, &fakeResolver{}, &fakeGenerator{}, pub, 5)
	err := e.RunCycle(context.Background(), selector.Hint{})
	if err == nil {
		t.Fatal("expected publish error to propagate")
	}

	if store.statuses["a"] != content.StatusFailed {
		t.Errorf("item a should be corrected to failed, got %q", store.statuses["a"])
	}
	if pub.calls != 1 {
		t.Errorf("publish failure must end the cycle, got %d attempts", pub.calls)
	}
	if _, touched := store.statuses["b"]; touched {
		t.Error("next candidate must not be touched after a publish failure")
	}
}

func TestRunCycleLLMFailureLeavesPending(t *testing.T) {
	store := newFakePostStore()
	sel := &fakeSelector{queue: []*content.Item{item("a", "a.jpg")}}

	e := NewEngine(store, sel, &fakeResolver{}, &fakeGenerator{err: errors.New("model overloaded")}, &fakePublisher{}, 5)
	err := e.RunCycle(context.Background(), selector.Hint{})
	if err == nil {
		t.Fatal("expected generation error to propagate")
	}
	if _, touched := store.statuses["a"]; touched {
		t.Errorf("item must stay pending after an LLM failure, got %q", store.statuses["a"])
	}
}

func TestRunCycleNoCandidates(t *testing.T) {
	store := newFakePostStore()
	e := NewEngine(store, &fakeSelector{}, &fakeResolver{}, &fakeGenerator{}, &fakePublisher{}, 5)
	if err := e.RunCycle(context.Background(), selector.Hint{}); err != nil {
		t.Fatalf("empty store should be a clean no-op, got %v", err)
	}
	if len(store.posts) != 0 {
		t.Error("nothing should be posted")
	}
}

func TestRunCycleBoundedAttempts(t *testing.T) {
	store := newFakePostStore()
	var queue []*content.Item
	for i := 0; i < 10; i++ {
		queue = append(queue, item(fmt.Sprintf("i%d", i), "bad.jpg"))
	}
	sel := &fakeSelector{queue: queue}
	resolver := &fakeResolver{bad: map[string]bool{"bad.jpg": true}}

	e := NewEngine(store, sel, resolver, &fakeGenerator{}, &fakePublisher{}, 5)
	if err := e.RunCycle(context.Background(), selector.Hint{}); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if sel.calls != 5 {
		t.Errorf("expected exactly 5 candidate attempts, got %d", sel.calls)
	}
	if len(store.posts) != 0 {
		t.Error("no post should be published when every image fails")
	}
}
