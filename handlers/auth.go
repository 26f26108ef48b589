package handlers

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"

	"mingle/auth"
	"mingle/config"
	"mingle/database"
	"mingle/models"
	"mingle/utils"
)

type SignupRequest struct {
	FirstName            string `json:"firstName" binding:"required,min=2,max=25"`
	LastName             string `json:"lastName" binding:"required,min=2,max=25"`
	Username             string `json:"username" binding:"required,min=2,max=25"`
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required"`
	PasswordConfirmation string `json:"passwordConfirmation" binding:"required,eqfield=Password"`
}

type SigninRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler owns the endpoints that issue tokens. The token service is
// injected at startup rather than reached through a package global.
type AuthHandler struct {
	Tokens *auth.TokenService
}

func NewAuthHandler(tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{Tokens: tokens}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, utils.CollectBindingErrors(err))
		return
	}

	var errs []utils.FieldError

	if !utils.ValidatePasswordStrength(req.Password) {
		errs = append(errs, utils.FieldError{Field: "password", Message: "Password is not strong enough."})
	}

	// Pre-check gives the client a readable error; the unique constraints
	// on username and email remain the authoritative guard against races.
	var taken bool
	err := database.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)", req.Username).Scan(&taken)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if taken {
		errs = append(errs, utils.FieldError{Field: "username", Message: "Username already in use."})
	}

	err = database.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", req.Email).Scan(&taken)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if taken {
		errs = append(errs, utils.FieldError{Field: "email", Message: "Email already in use."})
	}

	if len(errs) > 0 {
		utils.ValidationFailed(c, errs)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.InternalError(c, "failed to hash password")
		return
	}

	user := models.User{
		ID:          utils.GenerateUUID(),
		Username:    req.Username,
		Email:       req.Email,
		Password:    hashedPassword,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: utils.DeriveDisplayName(req.FirstName, req.LastName),
		Avatar:      config.Cfg.DefaultAvatar,
	}
	now := time.Now().Unix()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = database.DB.Exec(
		"INSERT INTO users (id, username, email, password, first_name, last_name, display_name, avatar, bio, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, '', ?, ?)",
		user.ID, user.Username, user.Email, user.Password, user.FirstName, user.LastName, user.DisplayName, user.Avatar, user.CreatedAt, user.UpdatedAt,
	)
	if database.IsDuplicate(err) {
		utils.ValidationFailed(c, []utils.FieldError{{Field: "username", Message: "Username or email already in use."}})
		return
	}
	if err != nil {
		utils.InternalError(c, "failed to create user")
		return
	}

	utils.Success(c, gin.H{"user": user.ToResponse()})
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, utils.CollectBindingErrors(err))
		return
	}

	var user models.User
	err := database.DB.QueryRow(
		"SELECT id, password FROM users WHERE username = ?",
		req.Username,
	).Scan(&user.ID, &user.Password)

	if err == sql.ErrNoRows {
		utils.Unauthorized(c, "invalid username or password")
		return
	}
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		utils.Unauthorized(c, "invalid username or password")
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	utils.Success(c, gin.H{"token": token})
}
