package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ktpPortalAPI/internal/leetcode"
	"ktpPortalAPI/internal/profile"
	"ktpPortalAPI/services"
)

type memStore struct {
	mu       sync.Mutex
	profiles map[string]*profile.PublicProfile
	answers  map[string]*leetcode.Answers
	reads    int
}

func (s *memStore) PublicProfiles(ctx context.Context) (map[string]*profile.PublicProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	return s.profiles, nil
}

func (s *memStore) SetAnswers(ctx context.Context, uid string, answers *leetcode.Answers) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *answers
	s.answers[uid] = &copied
	return nil
}

func (s *memStore) SetOffsets(ctx context.Context, uid string, offsets *leetcode.Offsets) error {
	return nil
}

func (s *memStore) RemoveLeetCodeData(ctx context.Context, uid string) error {
	return nil
}

func (s *memStore) IsAdmin(ctx context.Context, uid string) (bool, error) {
	return false, nil
}

func (s *memStore) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *memStore) answersFor(uid string) *leetcode.Answers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers[uid]
}

type staticFetcher struct{}

func (f *staticFetcher) Fetch(ctx context.Context, username string) (*leetcode.RawStats, *services.FetchError) {
	easy := 10.0
	return &leetcode.RawStats{EasySolved: &easy}, nil
}

func TestWorkerRunsOnSchedule(t *testing.T) {
	store := &memStore{
		profiles: map[string]*profile.PublicProfile{
			"uid1": {LeetCode: &leetcode.Data{Username: "alice", Offsets: &leetcode.Offsets{}}},
		},
		answers: map[string]*leetcode.Answers{},
	}
	service := services.NewLeetCodeService(store, &staticFetcher{})

	worker := StartLeetCodeWorker(service, nil, 10*time.Millisecond)
	defer worker.Stop()

	require.Eventually(t, func() bool {
		return store.answersFor("uid1") != nil
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 20, store.answersFor("uid1").WeightedScore)
}

func TestWorkerStops(t *testing.T) {
	store := &memStore{
		profiles: map[string]*profile.PublicProfile{},
		answers:  map[string]*leetcode.Answers{},
	}
	service := services.NewLeetCodeService(store, &staticFetcher{})

	worker := StartLeetCodeWorker(service, nil, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return store.readCount() > 0
	}, time.Second, 5*time.Millisecond)

	worker.Stop()
	stopped := store.readCount()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, store.readCount())
}
