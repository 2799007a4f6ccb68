// Package selector decides what to post next: which language keeps the
// 70/30 mix on target, and which pending item fits the current slot.
package selector

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/j3859/Africa-lens-bot/internal/content"
)

// Store is the slice of storage the selector needs.
type Store interface {
	LanguageRatio(window time.Duration) (float64, int, error)
	PendingByFilter(language, countryCode, niche string, limit int) ([]content.Item, error)
}

// Hint narrows candidate selection for a posting slot. Empty fields
// mean no preference.
type Hint struct {
	CountryCode string
	Niche       string
}

type Selector struct {
	store       Store
	frenchShare float64
	window      time.Duration
	rng         *rand.Rand
}

func New(store Store, frenchShare float64) *Selector {
	return &Selector{
		store:       store,
		frenchShare: frenchShare,
		window:      24 * time.Hour,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NextLanguage picks the language that moves the recent mix toward the
// target share. With no recent posts, French starts.
func (s *Selector) NextLanguage() (string, error) {
	ratio, total, err := s.store.LanguageRatio(s.window)
	if err != nil {
		return "", fmt.Errorf("language ratio: %w", err)
	}
	if total == 0 {
		return content.LangFrench, nil
	}
	if ratio < s.frenchShare {
		return content.LangFrench, nil
	}
	return content.LangEnglish, nil
}

// Select finds the best pending item for the language, relaxing the
// hint filters step by step, then picks randomly among the newest few
// so the page doesn't post one source on repeat.
func (s *Selector) Select(language string, hint Hint) (*content.Item, error) {
	type tier struct {
		country string
		niche   string
		limit   int
	}
	var tiers []tier
	if hint.CountryCode != "" && hint.Niche != "" {
		tiers = append(tiers, tier{hint.CountryCode, hint.Niche, 5})
	}
	if hint.CountryCode != "" {
		tiers = append(tiers, tier{hint.CountryCode, "", 5})
	}
	if hint.Niche != "" {
		tiers = append(tiers, tier{"", hint.Niche, 5})
	}
	tiers = append(tiers, tier{"", "", 10})

	for _, t := range tiers {
		items, err := s.store.PendingByFilter(language, t.country, t.niche, t.limit)
		if err != nil {
			return nil, fmt.Errorf("select candidates: %w", err)
		}
		if len(items) == 0 {
			continue
		}

		top := 3
		if len(items) < top {
			top = len(items)
		}
		pick := items[s.rng.Intn(top)]
		log.Printf("🎯 Selected %q (%s/%s/%s)", pick.Headline, pick.Language, pick.CountryCode, pick.Niche)
		return &pick, nil
	}

	return nil, nil
}
