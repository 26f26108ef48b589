package handlers

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"mingle/database"
	"mingle/models"
	"mingle/utils"
)

func GetUser(c *gin.Context) {
	userID := c.Param("userId")

	var profile models.Profile
	err := database.DB.QueryRow(
		"SELECT id, username, display_name, avatar, bio FROM users WHERE id = ?",
		userID,
	).Scan(&profile.ID, &profile.Username, &profile.DisplayName, &profile.Avatar, &profile.Bio)

	if err == sql.ErrNoRows {
		utils.NotFound(c, "user not found")
		return
	}
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM follow_edges WHERE followee_id = ?", &profile.FollowerCount},
		{"SELECT COUNT(*) FROM follow_edges WHERE follower_id = ?", &profile.FollowingCount},
		{"SELECT COUNT(*) FROM posts WHERE author_id = ?", &profile.PostCount},
	}
	for _, q := range counts {
		if err := database.DB.QueryRow(q.query, userID).Scan(q.dest); err != nil {
			utils.InternalError(c, "database error")
			return
		}
	}

	utils.Success(c, gin.H{"user": profile})
}

func GetUsers(c *gin.Context) {
	users, err := queryUserList(
		"SELECT id, username, display_name, avatar, bio FROM users ORDER BY username",
	)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	utils.Success(c, gin.H{"users": users})
}

func SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.BadRequest(c, "search query is required")
		return
	}

	users, err := queryUserList(`
		SELECT id, username, display_name, avatar, bio FROM users
		WHERE username LIKE ? OR display_name LIKE ?
		ORDER BY username
		LIMIT 20
	`, "%"+query+"%", "%"+query+"%")
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	utils.Success(c, gin.H{"users": users})
}
