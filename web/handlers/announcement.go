package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stafflow.com/stafflow/core"
	"stafflow.com/stafflow/model"
	"stafflow.com/stafflow/web/common"
	"stafflow.com/stafflow/web/middlewares"
)

type AnnouncementEndpoint struct {
	announcements *core.AnnouncementService
}

func RegisterAnnouncements(r *gin.RouterGroup, announcements *core.AnnouncementService) {
	ep := &AnnouncementEndpoint{announcements: announcements}
	r.GET("/announcements", ep.List)
	r.POST("/announcements", ep.Create)
	r.DELETE("/announcements/:id", ep.Delete)
}

func (ep *AnnouncementEndpoint) List(c *gin.Context) {
	announcements, err := ep.announcements.ListActive(c.Request.Context())
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(announcements))
}

type AnnouncementCreateDTO struct {
	Title     string                `json:"title" binding:"required,max=200"`
	Body      string                `json:"body" binding:"required"`
	ExpiresAt *common.LocalDateTime `json:"expiresAt"`
}

func (ep *AnnouncementEndpoint) Create(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)
	if err := core.Authorize(identity.Role, model.RoleLabAdmin, model.RoleSuperAdmin); err != nil {
		common.AbortWithError(c, err)
		return
	}

	var body AnnouncementCreateDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var expiresAt *time.Time
	if body.ExpiresAt != nil && !body.ExpiresAt.IsZero() {
		expiresAt = &body.ExpiresAt.Time
	}

	announcement, err := ep.announcements.Create(c.Request.Context(), body.Title, body.Body, identity.UserID, expiresAt)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(announcement))
}

func (ep *AnnouncementEndpoint) Delete(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)
	if err := core.Authorize(identity.Role, model.RoleLabAdmin, model.RoleSuperAdmin); err != nil {
		common.AbortWithError(c, err)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	if err := ep.announcements.Delete(c.Request.Context(), uint(id)); err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}
