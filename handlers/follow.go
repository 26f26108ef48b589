package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"mingle/database"
	"mingle/middleware"
	"mingle/models"
	"mingle/utils"
	"mingle/websocket"
)

// The follow graph is consent-gated: per ordered (requester, target) pair
// the only transitions are NoRelation -> PendingRequest -> {Following |
// NoRelation}, plus Following -> NoRelation via unfollow. A pair is never
// in the pending set and the edge set at the same time.

func RequestFollow(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	targetID := c.Param("userId")

	if targetID == callerID {
		utils.Forbidden(c, "cannot follow yourself")
		return
	}

	var exists bool
	err := database.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", targetID).Scan(&exists)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if !exists {
		utils.NotFound(c, "user not found")
		return
	}

	request := models.FollowRequest{
		ID:          utils.GenerateUUID(),
		RequesterID: callerID,
		TargetID:    targetID,
		CreatedAt:   time.Now().Unix(),
	}

	inserted, err := createFollowRequest(request)
	if database.IsDuplicate(err) {
		utils.BadRequest(c, "follow request already sent")
		return
	}
	if err != nil {
		utils.InternalError(c, "failed to send follow request")
		return
	}
	if !inserted {
		utils.BadRequest(c, "already following this user")
		return
	}

	websocket.NotifyUser(targetID, websocket.EventFollowRequest, gin.H{"requester_id": callerID})

	utils.Success(c, gin.H{"message": "follow request sent"})
}

func CancelFollowRequest(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	targetID := c.Param("userId")

	if targetID == callerID {
		utils.Forbidden(c, "cannot follow yourself")
		return
	}

	result, err := database.DB.Exec(
		"DELETE FROM follow_requests WHERE requester_id = ? AND target_id = ?",
		callerID, targetID,
	)
	if err != nil {
		utils.InternalError(c, "failed to cancel follow request")
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if rowsAffected == 0 {
		utils.NotFound(c, "follow request not found")
		return
	}

	utils.Success(c, gin.H{"message": "follow request cancelled"})
}

func RespondToFollowRequest(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	requesterID := c.Param("userId")
	status := c.Param("status")

	if requesterID == callerID {
		utils.Forbidden(c, "cannot respond to yourself")
		return
	}

	var exists bool
	err := database.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", requesterID).Scan(&exists)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if !exists {
		utils.NotFound(c, "user not found")
		return
	}

	// The pending-entry delete and the edge insert commit as a unit, so a
	// crash mid-operation cannot leave a one-sided relationship.
	tx, err := database.DB.Begin()
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	result, err := tx.Exec(
		"DELETE FROM follow_requests WHERE requester_id = ? AND target_id = ?",
		requesterID, callerID,
	)
	if err != nil {
		tx.Rollback()
		utils.InternalError(c, "failed to respond to follow request")
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		utils.InternalError(c, "database error")
		return
	}
	if rowsAffected == 0 {
		tx.Rollback()
		utils.NotFound(c, "follow request not found")
		return
	}

	accepted := status == "accepted"
	if accepted {
		edge := models.FollowEdge{
			ID:         utils.GenerateUUID(),
			FollowerID: requesterID,
			FolloweeID: callerID,
			CreatedAt:  time.Now().Unix(),
		}
		_, err = tx.Exec(
			"INSERT INTO follow_edges (id, follower_id, followee_id, created_at) VALUES (?, ?, ?, ?)",
			edge.ID, edge.FollowerID, edge.FolloweeID, edge.CreatedAt,
		)
		// An edge that already exists means a replayed accept; the end
		// state is the one we want, so converge instead of failing.
		if err != nil && !database.IsDuplicate(err) {
			tx.Rollback()
			utils.InternalError(c, "failed to create follow edge")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		utils.InternalError(c, "failed to commit transaction")
		return
	}

	if accepted {
		websocket.NotifyUser(requesterID, websocket.EventFollowAccepted, gin.H{"followee_id": callerID})
	}

	utils.Success(c, gin.H{"message": "follow request " + status})
}

func Unfollow(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	followerID := c.Param("userId")
	followeeID := c.Param("targetId")

	// Only the follower side may unilaterally sever the edge.
	if followerID != callerID {
		utils.Forbidden(c, "cannot unfollow on behalf of another user")
		return
	}

	result, err := database.DB.Exec(
		"DELETE FROM follow_edges WHERE follower_id = ? AND followee_id = ?",
		callerID, followeeID,
	)
	if err != nil {
		utils.InternalError(c, "failed to unfollow")
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if rowsAffected == 0 {
		utils.NotFound(c, "follow edge not found")
		return
	}

	follower, err := loadRelationshipView(callerID)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	followee, err := loadRelationshipView(followeeID)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	utils.Success(c, gin.H{"follower": follower, "followee": followee})
}

func GetFollowers(c *gin.Context) {
	userID := c.Param("userId")

	if !userExists(c, userID) {
		return
	}

	users, err := queryUserList(`
		SELECT u.id, u.username, u.display_name, u.avatar, u.bio
		FROM follow_edges f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = ?
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	utils.Success(c, gin.H{"users": users})
}

func GetFollowing(c *gin.Context) {
	userID := c.Param("userId")

	if !userExists(c, userID) {
		return
	}

	users, err := queryUserList(`
		SELECT u.id, u.username, u.display_name, u.avatar, u.bio
		FROM follow_edges f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = ?
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	utils.Success(c, gin.H{"users": users})
}

// GetFollowRequests lists the pending requests awaiting the caller's
// decision. Pending requests are visible to their target only.
func GetFollowRequests(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	userID := c.Param("userId")

	if userID != callerID {
		utils.Forbidden(c, "cannot view another user's follow requests")
		return
	}

	users, err := queryUserList(`
		SELECT u.id, u.username, u.display_name, u.avatar, u.bio
		FROM follow_requests f
		JOIN users u ON u.id = f.requester_id
		WHERE f.target_id = ?
		ORDER BY f.created_at DESC
	`, callerID)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	utils.Success(c, gin.H{"users": users})
}

// createFollowRequest records a pending entry for the pair. The edge check
// and the insert run as a single statement, so an accept committing between
// a separate check and write cannot leave the pair in both the pending set
// and the edge set. The (requester_id, target_id) unique key still catches
// two racing requests; a false return means an edge already holds the pair
// (or the target vanished), so no row was written.
func createFollowRequest(request models.FollowRequest) (bool, error) {
	result, err := database.DB.Exec(`
		INSERT INTO follow_requests (id, requester_id, target_id, created_at)
		SELECT ?, ?, ?, ?
		FROM users
		WHERE id = ?
		  AND NOT EXISTS (
			SELECT 1 FROM follow_edges WHERE follower_id = ? AND followee_id = ?
		  )
	`, request.ID, request.RequesterID, request.TargetID, request.CreatedAt,
		request.TargetID, request.RequesterID, request.TargetID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func userExists(c *gin.Context, userID string) bool {
	var exists bool
	err := database.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", userID).Scan(&exists)
	if err != nil {
		utils.InternalError(c, "database error")
		return false
	}
	if !exists {
		utils.NotFound(c, "user not found")
		return false
	}
	return true
}

func queryUserList(query string, args ...interface{}) ([]models.UserResponse, error) {
	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.UserResponse{}
	for rows.Next() {
		var u models.UserResponse
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Avatar, &u.Bio); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func loadRelationshipView(userID string) (*models.RelationshipView, error) {
	var u models.UserResponse
	err := database.DB.QueryRow(
		"SELECT id, username, display_name, avatar, bio FROM users WHERE id = ?",
		userID,
	).Scan(&u.ID, &u.Username, &u.DisplayName, &u.Avatar, &u.Bio)
	if err != nil {
		return nil, err
	}

	followers, err := queryIDList("SELECT follower_id FROM follow_edges WHERE followee_id = ?", userID)
	if err != nil {
		return nil, err
	}
	following, err := queryIDList("SELECT followee_id FROM follow_edges WHERE follower_id = ?", userID)
	if err != nil {
		return nil, err
	}

	return &models.RelationshipView{User: u, Followers: followers, Following: following}, nil
}

func queryIDList(query string, args ...interface{}) ([]string, error) {
	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
