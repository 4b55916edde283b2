package entity

import "time"

// Follow is a directed edge between users, one row per ordered pair. A user
// always has a self-follow edge (follower == followed) from creation.
type Follow struct {
	FollowerID int64
	FollowedID int64
	Timestamp  time.Time

	Follower *User
	Followed *User
}

// Watch marks a user's interest in a stock, at most one row per pair.
type Watch struct {
	UserID    int64
	StockID   int64
	Timestamp time.Time

	User  *User
	Stock *Stock
}
