package profile

import "ktpPortalAPI/internal/leetcode"

// PublicProfile is the denormalized per-user record under public_users.
// Only the fields the sync job and leaderboard read are mapped; the node
// carries more (cover links, roles, etc.) that this service ignores.
type PublicProfile struct {
	Name           string         `json:"name,omitempty"`
	Role           string         `json:"role,omitempty"`
	ProfilePicLink string         `json:"profile_pic_link,omitempty"`
	PfpThumbLink   string         `json:"pfp_thumb_link,omitempty"`
	LeetCode       *leetcode.Data `json:"leetcode,omitempty"`
}

// UserRecord is the canonical per-user record under users. The sync service
// only ever reads the admin flag from it.
type UserRecord struct {
	Admin bool `json:"admin,omitempty"`
}
