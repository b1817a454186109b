package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stafflow.com/stafflow/core"
	"stafflow.com/stafflow/model"
	"stafflow.com/stafflow/web/common"
	"stafflow.com/stafflow/web/middlewares"
)

type BiometricEndpoint struct {
	biometric *core.BiometricService
}

func RegisterBiometric(r *gin.RouterGroup, biometric *core.BiometricService) {
	ep := &BiometricEndpoint{biometric: biometric}
	r.POST("/biometric/punches", ep.Push)
	r.POST("/biometric/reconcile", ep.Reconcile)
}

type PunchBatchDTO struct {
	Punches []core.PunchInput `json:"punches" binding:"required,dive"`
}

// Push accepts a batch of raw punch events from an attendance device relay.
// Batches are idempotent: re-pushed events are deduplicated by event id.
func (ep *BiometricEndpoint) Push(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)
	if err := core.Authorize(identity.Role, model.RoleLabAdmin, model.RoleSuperAdmin); err != nil {
		common.AbortWithError(c, err)
		return
	}

	var body PunchBatchDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	accepted, err := ep.biometric.IngestPunches(c.Request.Context(), body.Punches)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"accepted": accepted}))
}

type ReconcileDTO struct {
	Date common.DateOnly `json:"date" binding:"required"`
}

func (ep *BiometricEndpoint) Reconcile(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)
	if err := core.Authorize(identity.Role, model.RoleLabAdmin, model.RoleSuperAdmin); err != nil {
		common.AbortWithError(c, err)
		return
	}

	var body ReconcileDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	stats, err := ep.biometric.Reconcile(c.Request.Context(), body.Date.Time)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(stats))
}
