package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stafflow.com/stafflow/core"
	"stafflow.com/stafflow/security"
	"stafflow.com/stafflow/web/common"
)

type AuthEndpoint struct {
	users     *core.UserService
	jwtSecret []byte
	tokenTTL  time.Duration
}

func RegisterAuth(r *gin.RouterGroup, users *core.UserService, jwtSecret []byte, tokenTTL time.Duration) {
	ep := &AuthEndpoint{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
	r.POST("/auth/login", ep.Login)
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ep *AuthEndpoint) Login(c *gin.Context) {
	var body LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	user, err := ep.users.Authenticate(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("invalid credentials"))
		return
	}

	token, err := security.CreateIdentityToken(user, ep.jwtSecret, ep.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.FullName(),
			"email": user.Email,
			"role":  user.Role,
		},
	}))
}
