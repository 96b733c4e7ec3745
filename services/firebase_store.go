package services

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/db"

	"ktpPortalAPI/internal/leetcode"
	"ktpPortalAPI/internal/profile"
)

const (
	usersPath       = "users"
	publicUsersPath = "public_users"
)

// serverTimestamp is the Realtime Database placeholder the server replaces
// with its own clock on write.
var serverTimestamp = map[string]string{".sv": "timestamp"}

// FirebaseProfileStore is the production ProfileStore, backed by the
// Realtime Database. The canonical record lives under users/{uid}, the
// denormalized mirror the portal reads under public_users/{uid}.
type FirebaseProfileStore struct {
	users  *db.Ref
	public *db.Ref
}

func NewFirebaseProfileStore(client *db.Client) *FirebaseProfileStore {
	return &FirebaseProfileStore{
		users:  client.NewRef(usersPath),
		public: client.NewRef(publicUsersPath),
	}
}

func (s *FirebaseProfileStore) PublicProfiles(ctx context.Context) (map[string]*profile.PublicProfile, error) {
	var profiles map[string]*profile.PublicProfile
	if err := s.public.Get(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to read public users: %w", err)
	}
	return profiles, nil
}

// SetAnswers writes the full answers record in one atomic set, stamping
// lastUpdated with the database's server time.
func (s *FirebaseProfileStore) SetAnswers(ctx context.Context, uid string, answers *leetcode.Answers) error {
	payload := map[string]interface{}{
		"easySolved":     answers.EasySolved,
		"mediumSolved":   answers.MediumSolved,
		"hardSolved":     answers.HardSolved,
		"totalSolved":    answers.TotalSolved,
		"weightedScore":  answers.WeightedScore,
		"acceptanceRate": answers.AcceptanceRate,
		"lastUpdated":    serverTimestamp,
	}

	if err := s.public.Child(uid).Child("leetcode").Child("answers").Set(ctx, payload); err != nil {
		return fmt.Errorf("failed to write answers for %s: %w", uid, err)
	}
	return nil
}

func (s *FirebaseProfileStore) SetOffsets(ctx context.Context, uid string, offsets *leetcode.Offsets) error {
	if err := s.public.Child(uid).Child("leetcode").Child("offsets").Set(ctx, offsets); err != nil {
		return fmt.Errorf("failed to write offsets for %s: %w", uid, err)
	}
	return nil
}

// RemoveLeetCodeData deletes the leetcode subtree from both the canonical
// record and the public mirror. A node that is already absent is not an
// error; both deletes are attempted even if the first fails.
func (s *FirebaseProfileStore) RemoveLeetCodeData(ctx context.Context, uid string) error {
	usersErr := s.users.Child(uid).Child("leetcode").Delete(ctx)
	publicErr := s.public.Child(uid).Child("leetcode").Delete(ctx)

	if usersErr != nil {
		return fmt.Errorf("failed to remove leetcode data from users/%s: %w", uid, usersErr)
	}
	if publicErr != nil {
		return fmt.Errorf("failed to remove leetcode data from public_users/%s: %w", uid, publicErr)
	}
	return nil
}

func (s *FirebaseProfileStore) IsAdmin(ctx context.Context, uid string) (bool, error) {
	var record profile.UserRecord
	if err := s.users.Child(uid).Get(ctx, &record); err != nil {
		return false, fmt.Errorf("failed to read user %s: %w", uid, err)
	}
	return record.Admin, nil
}
