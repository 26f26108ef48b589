package models

type Post struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	Text      string `json:"text"`
	Media     string `json:"media"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// PostWithMeta decorates a post with its author and counters for list and
// detail responses.
type PostWithMeta struct {
	Post
	Author       UserResponse `json:"author"`
	LikeCount    int          `json:"like_count"`
	CommentCount int          `json:"comment_count"`
}
