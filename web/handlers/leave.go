package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stafflow.com/stafflow/core"
	"stafflow.com/stafflow/model"
	"stafflow.com/stafflow/web/common"
	"stafflow.com/stafflow/web/middlewares"
)

type LeaveEndpoint struct {
	leave  *core.LeaveService
	ledger *core.Ledger
}

func RegisterLeave(r *gin.RouterGroup, leave *core.LeaveService, ledger *core.Ledger) {
	ep := &LeaveEndpoint{leave: leave, ledger: ledger}
	r.POST("/leave/applications", ep.Apply)
	r.GET("/leave/applications", ep.List)
	r.GET("/leave/applications/pending", ep.ListPending)
	r.POST("/leave/applications/:id/approve", ep.Approve)
	r.POST("/leave/applications/:id/reject", ep.Reject)
	r.POST("/leave/applications/:id/cancel", ep.Cancel)
	r.GET("/leave/balance", ep.Balance)
}

type LeaveApplyDTO struct {
	LeaveType string          `json:"leaveType" binding:"omitempty,oneof=CASUAL"`
	FromDate  common.DateOnly `json:"fromDate" binding:"required"`
	ToDate    common.DateOnly `json:"toDate" binding:"required"`
	Reason    string          `json:"reason" binding:"max=500"`
}

func (ep *LeaveEndpoint) Apply(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)

	var body LeaveApplyDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	app, err := ep.leave.Apply(c.Request.Context(), core.ApplyInput{
		UserID:    identity.UserID,
		LeaveType: model.LeaveType(body.LeaveType),
		FromDate:  body.FromDate.Time,
		ToDate:    body.ToDate.Time,
		Reason:    body.Reason,
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(app))
}

func (ep *LeaveEndpoint) List(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)

	// Admins may list another user's applications via ?userId=.
	userID := identity.UserID
	if q := c.Query("userId"); q != "" {
		if err := core.Authorize(identity.Role, model.RoleLabAdmin, model.RoleSuperAdmin); err != nil {
			common.AbortWithError(c, err)
			return
		}
		id, err := strconv.Atoi(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid userId"))
			return
		}
		userID = uint(id)
	}

	apps, err := ep.leave.ListByUser(c.Request.Context(), userID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(apps))
}

func (ep *LeaveEndpoint) ListPending(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)
	if err := core.Authorize(identity.Role, model.RoleLabAdmin, model.RoleSuperAdmin); err != nil {
		common.AbortWithError(c, err)
		return
	}

	apps, err := ep.leave.ListPending(c.Request.Context())
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(apps))
}

type LeaveReviewDTO struct {
	Notes string `json:"notes" binding:"max=500"`
}

func (ep *LeaveEndpoint) Approve(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)
	if err := core.Authorize(identity.Role, model.RoleLabAdmin, model.RoleSuperAdmin); err != nil {
		common.AbortWithError(c, err)
		return
	}

	var body LeaveReviewDTO
	if err := c.ShouldBindJSON(&body); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	app, err := ep.leave.Approve(c.Request.Context(), c.Param("id"), identity.UserID, body.Notes)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(app))
}

func (ep *LeaveEndpoint) Reject(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)
	if err := core.Authorize(identity.Role, model.RoleLabAdmin, model.RoleSuperAdmin); err != nil {
		common.AbortWithError(c, err)
		return
	}

	var body LeaveReviewDTO
	if err := c.ShouldBindJSON(&body); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	app, err := ep.leave.Reject(c.Request.Context(), c.Param("id"), identity.UserID, body.Notes)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(app))
}

func (ep *LeaveEndpoint) Cancel(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)

	app, err := ep.leave.Cancel(c.Request.Context(), c.Param("id"), identity.UserID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(app))
}

func (ep *LeaveEndpoint) Balance(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().UTC().Year())))
	if err != nil || year == 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid year"))
		return
	}

	bal, err := ep.ledger.Get(c.Request.Context(), identity.UserID, year)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(bal))
}
