package models

// FollowRequest is a one-sided, unconfirmed ask to establish a follow
// edge, awaiting accept or reject by the target. The (requester, target)
// pair is unique, so at most one pending request exists per direction.
type FollowRequest struct {
	ID          string `json:"id"`
	RequesterID string `json:"requester_id"`
	TargetID    string `json:"target_id"`
	CreatedAt   int64  `json:"created_at"`
}

// FollowEdge is a confirmed follow: follower follows followee. One row
// backs both sides of the relationship, so the followee's followers set
// and the follower's following set can never disagree.
type FollowEdge struct {
	ID         string `json:"id"`
	FollowerID string `json:"follower_id"`
	FolloweeID string `json:"followee_id"`
	CreatedAt  int64  `json:"created_at"`
}

// RelationshipView is a user together with their current follower and
// following sets, returned by mutations that touch both sides of an edge.
type RelationshipView struct {
	User      UserResponse `json:"user"`
	Followers []string     `json:"followers"`
	Following []string     `json:"following"`
}
