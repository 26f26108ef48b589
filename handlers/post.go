package handlers

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"

	"mingle/database"
	"mingle/middleware"
	"mingle/models"
	"mingle/utils"
	"mingle/websocket"
)

type CreatePostRequest struct {
	Text  string `json:"text" binding:"max=2500"`
	Media string `json:"media" binding:"max=255"`
}

type UpdatePostRequest struct {
	Text string `json:"text" binding:"required,max=2500"`
}

func CreatePost(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, utils.CollectBindingErrors(err))
		return
	}

	if req.Text == "" && req.Media == "" {
		utils.ValidationFailed(c, []utils.FieldError{
			{Field: "content", Message: "Post content must have either media or text."},
		})
		return
	}

	post := models.Post{
		ID:       utils.GenerateUUID(),
		AuthorID: userID,
		Text:     req.Text,
		Media:    req.Media,
	}
	now := time.Now().Unix()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := database.DB.Exec(
		"INSERT INTO posts (id, author_id, text, media, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		post.ID, post.AuthorID, post.Text, post.Media, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		utils.InternalError(c, "failed to create post")
		return
	}

	utils.Success(c, gin.H{"post": post})
}

func GetPost(c *gin.Context) {
	postID := c.Param("postId")

	var post models.PostWithMeta
	err := database.DB.QueryRow(`
		SELECT p.id, p.author_id, p.text, p.media, p.created_at, p.updated_at,
			   u.id, u.username, u.display_name, u.avatar, u.bio,
			   (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id),
			   (SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id)
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = ?
	`, postID).Scan(
		&post.ID, &post.AuthorID, &post.Text, &post.Media, &post.CreatedAt, &post.UpdatedAt,
		&post.Author.ID, &post.Author.Username, &post.Author.DisplayName, &post.Author.Avatar, &post.Author.Bio,
		&post.LikeCount, &post.CommentCount,
	)

	if err == sql.ErrNoRows {
		utils.NotFound(c, "post not found")
		return
	}
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	utils.Success(c, gin.H{"post": post})
}

func GetPosts(c *gin.Context) {
	posts, err := queryPostList(`
		SELECT p.id, p.author_id, p.text, p.media, p.created_at, p.updated_at,
			   u.id, u.username, u.display_name, u.avatar, u.bio,
			   (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id),
			   (SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id)
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	utils.Success(c, gin.H{"posts": posts})
}

// GetUserPosts lists one author's posts, newest first.
func GetUserPosts(c *gin.Context) {
	userID := c.Param("userId")

	if !userExists(c, userID) {
		return
	}

	posts, err := queryPostList(`
		SELECT p.id, p.author_id, p.text, p.media, p.created_at, p.updated_at,
			   u.id, u.username, u.display_name, u.avatar, u.bio,
			   (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id),
			   (SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id)
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = ?
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	utils.Success(c, gin.H{"posts": posts})
}

func queryPostList(query string, args ...interface{}) ([]models.PostWithMeta, error) {
	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.PostWithMeta{}
	for rows.Next() {
		var post models.PostWithMeta
		if err := rows.Scan(
			&post.ID, &post.AuthorID, &post.Text, &post.Media, &post.CreatedAt, &post.UpdatedAt,
			&post.Author.ID, &post.Author.Username, &post.Author.DisplayName, &post.Author.Avatar, &post.Author.Bio,
			&post.LikeCount, &post.CommentCount,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func UpdatePost(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID := c.Param("postId")

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, utils.CollectBindingErrors(err))
		return
	}

	authorID, ok := postAuthor(c, postID)
	if !ok {
		return
	}
	if authorID != userID {
		utils.Forbidden(c, "not the author of this post")
		return
	}

	_, err := database.DB.Exec(
		"UPDATE posts SET text = ?, updated_at = ? WHERE id = ?",
		req.Text, time.Now().Unix(), postID,
	)
	if err != nil {
		utils.InternalError(c, "failed to update post")
		return
	}

	GetPost(c)
}

func DeletePost(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID := c.Param("postId")

	authorID, ok := postAuthor(c, postID)
	if !ok {
		return
	}
	if authorID != userID {
		utils.Forbidden(c, "not the author of this post")
		return
	}

	// The post and everything hanging off it go in one transaction.
	tx, err := database.DB.Begin()
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	deletes := []struct {
		query string
	}{
		{"DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM comments WHERE post_id = ?)"},
		{"DELETE FROM comments WHERE post_id = ?"},
		{"DELETE FROM post_likes WHERE post_id = ?"},
		{"DELETE FROM posts WHERE id = ?"},
	}
	for _, d := range deletes {
		if _, err := tx.Exec(d.query, postID); err != nil {
			tx.Rollback()
			utils.InternalError(c, "failed to delete post")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		utils.InternalError(c, "failed to commit transaction")
		return
	}

	utils.Success(c, nil)
}

func LikePost(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID := c.Param("postId")

	authorID, ok := postAuthor(c, postID)
	if !ok {
		return
	}

	_, err := database.DB.Exec(
		"INSERT INTO post_likes (id, post_id, user_id, created_at) VALUES (?, ?, ?, ?)",
		utils.GenerateUUID(), postID, userID, time.Now().Unix(),
	)
	if database.IsDuplicate(err) {
		utils.BadRequest(c, "post already liked")
		return
	}
	if err != nil {
		utils.InternalError(c, "failed to like post")
		return
	}

	if authorID != userID {
		websocket.NotifyUser(authorID, websocket.EventPostLiked, gin.H{"post_id": postID, "user_id": userID})
	}

	utils.Success(c, nil)
}

func UnlikePost(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID := c.Param("postId")

	result, err := database.DB.Exec(
		"DELETE FROM post_likes WHERE post_id = ? AND user_id = ?",
		postID, userID,
	)
	if err != nil {
		utils.InternalError(c, "failed to unlike post")
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if rowsAffected == 0 {
		utils.NotFound(c, "like not found")
		return
	}

	utils.Success(c, nil)
}

// postAuthor resolves the author of postID, writing a 404 and returning
// ok=false when the post does not exist.
func postAuthor(c *gin.Context, postID string) (string, bool) {
	var authorID string
	err := database.DB.QueryRow("SELECT author_id FROM posts WHERE id = ?", postID).Scan(&authorID)
	if err == sql.ErrNoRows {
		utils.NotFound(c, "post not found")
		return "", false
	}
	if err != nil {
		utils.InternalError(c, "database error")
		return "", false
	}
	return authorID, true
}
