package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stafflow.com/stafflow/core"
	"stafflow.com/stafflow/model"
	"stafflow.com/stafflow/utils"
	"stafflow.com/stafflow/web/common"
	"stafflow.com/stafflow/web/middlewares"
)

type AttendanceEndpoint struct {
	attendance *core.AttendanceService
}

func RegisterAttendance(r *gin.RouterGroup, attendance *core.AttendanceService) {
	ep := &AttendanceEndpoint{attendance: attendance}
	r.POST("/attendance", ep.Create)
	r.PUT("/attendance/:id", ep.Update)
	r.GET("/attendance", ep.List)
	r.GET("/attendance/summary", ep.MonthlySummary)
}

type AttendanceCreateDTO struct {
	UserID      uint                  `json:"userId" binding:"required"`
	Date        common.DateOnly       `json:"date" binding:"required"`
	Status      string                `json:"status" binding:"required,oneof=PRESENT ABSENT HALF_DAY CASUAL_LEAVE WEEKEND HOLIDAY"`
	FirstInTime *common.LocalDateTime `json:"firstInTime"`
	LastOutTime *common.LocalDateTime `json:"lastOutTime"`
	Notes       string                `json:"notes" binding:"max=500"`
}

func (ep *AttendanceEndpoint) Create(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)
	if err := core.Authorize(identity.Role, model.RoleLabAdmin, model.RoleSuperAdmin); err != nil {
		common.AbortWithError(c, err)
		return
	}

	var body AttendanceCreateDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	in := core.AttendanceInput{
		UserID: body.UserID,
		Date:   body.Date.Time,
		Status: model.AttendanceStatus(body.Status),
		Notes:  body.Notes,
	}
	if body.FirstInTime != nil {
		in.FirstInTime = &body.FirstInTime.Time
	}
	if body.LastOutTime != nil {
		in.LastOutTime = &body.LastOutTime.Time
	}
	if in.FirstInTime != nil && in.LastOutTime != nil {
		in.TotalDuration = int32(in.LastOutTime.Sub(*in.FirstInTime).Minutes())
	}

	rec, err := ep.attendance.Create(c.Request.Context(), in)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(rec))
}

type AttendanceUpdateDTO struct {
	Status *string `json:"status,omitempty" binding:"omitempty,oneof=PRESENT ABSENT HALF_DAY CASUAL_LEAVE WEEKEND HOLIDAY"`
	Notes  *string `json:"notes,omitempty"`
}

func (ep *AttendanceEndpoint) Update(c *gin.Context) {
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

	var body AttendanceUpdateDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var status *model.AttendanceStatus
	if body.Status != nil {
		s := model.AttendanceStatus(*body.Status)
		status = &s
	}

	rec, err := ep.attendance.Update(c.Request.Context(), uint(id), status, body.Notes)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rec))
}

func (ep *AttendanceEndpoint) List(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)

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

	from := utils.MustParseDate(c.Query("from"))
	to := utils.MustParseDate(c.Query("to"))
	if from.IsZero() || to.IsZero() {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid from/to date"))
		return
	}

	records, err := ep.attendance.List(c.Request.Context(), userID, from, to)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSearchResponse(records, int64(len(records))))
}

func (ep *AttendanceEndpoint) MonthlySummary(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)

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

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid year/month"))
		return
	}

	summary, err := ep.attendance.MonthlySummary(c.Request.Context(), userID, year, month)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(summary))
}
