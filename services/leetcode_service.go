package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ktpPortalAPI/internal/leetcode"
	"ktpPortalAPI/internal/profile"
	"ktpPortalAPI/utils"
)

var (
	ErrMissingUsername = errors.New("target username not provided")
	ErrUserNotFound    = errors.New("no enrolled user with that username")
	ErrNoAnswers       = errors.New("user has no leetcode answers to reset")
)

// ProfileStore is the slice of the member database the sync job touches.
// Each operation addresses a single path and is atomic on its own; no
// cross-user invariant exists, so no transactions are needed.
type ProfileStore interface {
	PublicProfiles(ctx context.Context) (map[string]*profile.PublicProfile, error)
	SetAnswers(ctx context.Context, uid string, answers *leetcode.Answers) error
	SetOffsets(ctx context.Context, uid string, offsets *leetcode.Offsets) error
	RemoveLeetCodeData(ctx context.Context, uid string) error
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

// StatsFetcher fetches one user's raw stats from the external provider.
type StatsFetcher interface {
	Fetch(ctx context.Context, username string) (*leetcode.RawStats, *FetchError)
}

type LeetCodeService struct {
	store   ProfileStore
	fetcher StatsFetcher
}

func NewLeetCodeService(store ProfileStore, fetcher StatsFetcher) *LeetCodeService {
	return &LeetCodeService{
		store:   store,
		fetcher: fetcher,
	}
}

type syncOutcome int

const (
	outcomeUpdated syncOutcome = iota
	outcomeFailed
	outcomeDeleted
	outcomeSkipped
)

// Run executes one full sync pass: a single roster snapshot, then one
// concurrent task per profile, joined before the summary is computed. A
// failing user never blocks or cancels the others.
func (s *LeetCodeService) Run(ctx context.Context, opts leetcode.RunOptions) (*leetcode.RunSummary, error) {
	summary := &leetcode.RunSummary{
		RunID:     uuid.New().String(),
		Failed:    []string{},
		StartedAt: time.Now(),
	}

	profiles, err := s.store.PublicProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read public profiles: %w", err)
	}
	if len(profiles) == 0 {
		summary.FinishedAt = time.Now()
		return summary, nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for uid, p := range profiles {
		wg.Add(1)
		go func(uid string, p *profile.PublicProfile) {
			defer wg.Done()

			outcome, username := s.syncOne(ctx, uid, p, opts)

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case outcomeUpdated:
				summary.Updated++
			case outcomeFailed:
				summary.Failed = append(summary.Failed, username)
			case outcomeSkipped:
				summary.Skipped++
			}
		}(uid, p)
	}

	wg.Wait()
	summary.FinishedAt = time.Now()

	return summary, nil
}

func (s *LeetCodeService) syncOne(ctx context.Context, uid string, p *profile.PublicProfile, opts leetcode.RunOptions) (syncOutcome, string) {
	lc := p.LeetCode

	if lc != nil && lc.Username != "" {
		username := lc.Username
		log.Printf("LeetCode sync: updating stats for %s", username)

		stats, fetchErr := s.fetcher.Fetch(ctx, username)
		if fetchErr != nil {
			log.Printf("LeetCode sync: failed to fetch stats for %s: %v", username, fetchErr)
			leetcodeFetchFailures.Inc()
			return outcomeFailed, username
		}

		easySolved := coerceCount(stats.EasySolved)
		mediumSolved := coerceCount(stats.MediumSolved)
		hardSolved := coerceCount(stats.HardSolved)

		answers := &leetcode.Answers{
			EasySolved:     easySolved,
			MediumSolved:   mediumSolved,
			HardSolved:     hardSolved,
			TotalSolved:    easySolved + mediumSolved + hardSolved,
			WeightedScore:  utils.WeightedScore(easySolved, mediumSolved, hardSolved),
			AcceptanceRate: coerceRate(stats.AcceptanceRate),
		}

		if err := s.store.SetAnswers(ctx, uid, answers); err != nil {
			log.Printf("LeetCode sync: failed to write answers for %s: %v", username, err)
			return outcomeFailed, username
		}

		// Zero offsets on an initial scrape, and on the first successful
		// fetch of a user who has no baseline yet.
		if opts.ClearOffsets || lc.Offsets == nil {
			if err := s.store.SetOffsets(ctx, uid, &leetcode.Offsets{}); err != nil {
				log.Printf("LeetCode sync: failed to write offsets for %s: %v", username, err)
			}
		}

		log.Printf("LeetCode sync: updated %s: easy=%d, medium=%d, hard=%d",
			username, easySolved, mediumSolved, hardSolved)
		return outcomeUpdated, username
	}

	// Previously enrolled, username since cleared: remove leftover stats so
	// no orphaned leetcode data survives for unenrolled users.
	if lc != nil {
		log.Printf("LeetCode sync: removing %s's leetcode data (no username)", uid)
		if err := s.store.RemoveLeetCodeData(ctx, uid); err != nil {
			log.Printf("LeetCode sync: failed to remove leetcode data for %s: %v", uid, err)
		}
		return outcomeDeleted, ""
	}

	return outcomeSkipped, ""
}

// ResetOffsets sets a user's offsets equal to their current answers, making
// their tracked progress start from zero at this moment. No fetch happens.
func (s *LeetCodeService) ResetOffsets(ctx context.Context, username string) error {
	if username == "" {
		return ErrMissingUsername
	}

	profiles, err := s.store.PublicProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to read public profiles: %w", err)
	}

	var targetUID string
	var target *profile.PublicProfile
	for uid, p := range profiles {
		if p.LeetCode != nil && p.LeetCode.Username == username {
			targetUID = uid
			target = p
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	answers := target.LeetCode.Answers
	if answers == nil {
		return ErrNoAnswers
	}

	offsets := &leetcode.Offsets{
		EasySolved:   answers.EasySolved,
		MediumSolved: answers.MediumSolved,
		HardSolved:   answers.HardSolved,
	}
	if err := s.store.SetOffsets(ctx, targetUID, offsets); err != nil {
		return fmt.Errorf("failed to reset offsets for %s: %w", username, err)
	}

	log.Printf("LeetCode sync: reset offsets for %s to easy=%d, medium=%d, hard=%d",
		username, offsets.EasySolved, offsets.MediumSolved, offsets.HardSolved)
	return nil
}

// Leaderboard returns every enrolled user with stats, best score first. The
// score is recomputed from the raw answers; offsets are reported as stored
// but not subtracted, matching the portal's leaderboard view.
func (s *LeetCodeService) Leaderboard(ctx context.Context) (*leetcode.Leaderboard, error) {
	profiles, err := s.store.PublicProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read public profiles: %w", err)
	}

	entries := []*leetcode.LeaderboardEntry{}
	for _, p := range profiles {
		if p.LeetCode == nil || p.LeetCode.Username == "" || p.LeetCode.Answers == nil {
			continue
		}
		a := p.LeetCode.Answers

		pictureLink := p.PfpThumbLink
		if pictureLink == "" {
			pictureLink = p.ProfilePicLink
		}

		entries = append(entries, &leetcode.LeaderboardEntry{
			Username:       p.LeetCode.Username,
			Name:           p.Name,
			Role:           p.Role,
			PictureLink:    pictureLink,
			EasySolved:     a.EasySolved,
			MediumSolved:   a.MediumSolved,
			HardSolved:     a.HardSolved,
			TotalSolved:    a.EasySolved + a.MediumSolved + a.HardSolved,
			AcceptanceRate: a.AcceptanceRate,
			WeightedScore:  utils.WeightedScore(a.EasySolved, a.MediumSolved, a.HardSolved),
			Offsets:        p.LeetCode.Offsets,
			LastUpdated:    a.LastUpdated,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].WeightedScore > entries[j].WeightedScore
	})

	return &leetcode.Leaderboard{
		Entries:    entries,
		TotalUsers: len(entries),
	}, nil
}

// IsAdmin reports whether the caller's canonical profile carries the admin flag.
func (s *LeetCodeService) IsAdmin(ctx context.Context, uid string) (bool, error) {
	return s.store.IsAdmin(ctx, uid)
}

func coerceCount(v *float64) int {
	if v == nil || *v < 0 {
		return 0
	}
	return int(*v)
}

func coerceRate(v *float64) float64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
