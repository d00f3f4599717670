package models

import "time"

// Follow is a directed edge: FollowerID follows FollowingID
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  string    `json:"followerId" gorm:"type:varchar(128);not null;index;uniqueIndex:idx_follower_following"`
	FollowingID string    `json:"followingId" gorm:"type:varchar(128);not null;index;uniqueIndex:idx_follower_following;check:chk_follows_not_self,follower_id <> following_id"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`

	Follower  *User `json:"-" gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE"`
	Following *User `json:"-" gorm:"foreignKey:FollowingID;references:ID;constraint:OnDelete:CASCADE"`
}

// FollowEdge is an edge with the counterpart profile attached. Exactly one of
// Follower and Following is set, depending on which list it belongs to.
type FollowEdge struct {
	ID          uint         `json:"id"`
	FollowerID  string       `json:"followerId"`
	FollowingID string       `json:"followingId"`
	CreatedAt   time.Time    `json:"createdAt"`
	Follower    *UserSummary `json:"follower,omitempty"`
	Following   *UserSummary `json:"following,omitempty"`
}

// FollowLists is the result of getAllFollowersAndFollowings
type FollowLists struct {
	Followers []FollowEdge `json:"followers"`
	Following []FollowEdge `json:"following"`
}

// Follow operation types
const (
	FollowTypeFollow   = "follow"
	FollowTypeUnfollow = "unfollow"
)

// UpdateFollowRequest defines the request body for follow/unfollow; the actor
// comes from the session
type UpdateFollowRequest struct {
	ID   string `json:"id" validate:"required,max=128"`
	Type string `json:"type" validate:"required,oneof=follow unfollow"`
}
