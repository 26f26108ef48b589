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

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

func CreateComment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID := c.Param("postId")

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, utils.CollectBindingErrors(err))
		return
	}

	authorID, ok := postAuthor(c, postID)
	if !ok {
		return
	}

	comment := models.Comment{
		ID:       utils.GenerateUUID(),
		PostID:   postID,
		AuthorID: userID,
		Content:  req.Content,
	}
	now := time.Now().Unix()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := database.DB.Exec(
		"INSERT INTO comments (id, post_id, author_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		comment.ID, comment.PostID, comment.AuthorID, comment.Content, comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		utils.InternalError(c, "failed to create comment")
		return
	}

	if authorID != userID {
		websocket.NotifyUser(authorID, websocket.EventPostCommented, gin.H{"post_id": postID, "comment_id": comment.ID})
	}

	utils.Success(c, gin.H{"comment": comment})
}

func GetComments(c *gin.Context) {
	postID := c.Param("postId")

	if _, ok := postAuthor(c, postID); !ok {
		return
	}

	rows, err := database.DB.Query(`
		SELECT cm.id, cm.post_id, cm.author_id, cm.content, cm.created_at, cm.updated_at,
			   u.id, u.username, u.display_name, u.avatar, u.bio,
			   (SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = cm.id)
		FROM comments cm
		JOIN users u ON u.id = cm.author_id
		WHERE cm.post_id = ?
		ORDER BY cm.created_at
	`, postID)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	defer rows.Close()

	comments := []models.CommentWithAuthor{}
	for rows.Next() {
		var cm models.CommentWithAuthor
		if err := rows.Scan(
			&cm.ID, &cm.PostID, &cm.AuthorID, &cm.Content, &cm.CreatedAt, &cm.UpdatedAt,
			&cm.Author.ID, &cm.Author.Username, &cm.Author.DisplayName, &cm.Author.Avatar, &cm.Author.Bio,
			&cm.LikeCount,
		); err != nil {
			utils.InternalError(c, "database error")
			return
		}
		comments = append(comments, cm)
	}
	if err := rows.Err(); err != nil {
		utils.InternalError(c, "database error")
		return
	}

	utils.Success(c, gin.H{"comments": comments})
}

func DeleteComment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	commentID := c.Param("commentId")

	var authorID string
	err := database.DB.QueryRow("SELECT author_id FROM comments WHERE id = ?", commentID).Scan(&authorID)
	if err == sql.ErrNoRows {
		utils.NotFound(c, "comment not found")
		return
	}
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if authorID != userID {
		utils.Forbidden(c, "not the author of this comment")
		return
	}

	tx, err := database.DB.Begin()
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	if _, err := tx.Exec("DELETE FROM comment_likes WHERE comment_id = ?", commentID); err != nil {
		tx.Rollback()
		utils.InternalError(c, "failed to delete comment")
		return
	}
	if _, err := tx.Exec("DELETE FROM comments WHERE id = ?", commentID); err != nil {
		tx.Rollback()
		utils.InternalError(c, "failed to delete comment")
		return
	}

	if err := tx.Commit(); err != nil {
		utils.InternalError(c, "failed to commit transaction")
		return
	}

	utils.Success(c, nil)
}

func LikeComment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	commentID := c.Param("commentId")

	var exists bool
	err := database.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM comments WHERE id = ?)", commentID).Scan(&exists)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if !exists {
		utils.NotFound(c, "comment not found")
		return
	}

	_, err = database.DB.Exec(
		"INSERT INTO comment_likes (id, comment_id, user_id, created_at) VALUES (?, ?, ?, ?)",
		utils.GenerateUUID(), commentID, userID, time.Now().Unix(),
	)
	if database.IsDuplicate(err) {
		utils.BadRequest(c, "comment already liked")
		return
	}
	if err != nil {
		utils.InternalError(c, "failed to like comment")
		return
	}

	utils.Success(c, nil)
}

func UnlikeComment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	commentID := c.Param("commentId")

	result, err := database.DB.Exec(
		"DELETE FROM comment_likes WHERE comment_id = ? AND user_id = ?",
		commentID, userID,
	)
	if err != nil {
		utils.InternalError(c, "failed to unlike comment")
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
