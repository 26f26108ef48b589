package models

type Comment struct {
	ID        string `json:"id"`
	PostID    string `json:"post_id"`
	AuthorID  string `json:"author_id"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type CommentWithAuthor struct {
	Comment
	Author    UserResponse `json:"author"`
	LikeCount int          `json:"like_count"`
}
