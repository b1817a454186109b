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

type HolidayEndpoint struct {
	holidays *core.HolidayService
}

func RegisterHolidays(r *gin.RouterGroup, holidays *core.HolidayService) {
	ep := &HolidayEndpoint{holidays: holidays}
	r.GET("/holidays", ep.List)
	r.POST("/holidays", ep.Create)
	r.PUT("/holidays/:id", ep.Update)
	r.DELETE("/holidays/:id", ep.Delete)
}

func (ep *HolidayEndpoint) List(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid year"))
		return
	}

	holidays, err := ep.holidays.List(c.Request.Context(), year)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(holidays))
}

type HolidayCreateDTO struct {
	Date        common.DateOnly `json:"date" binding:"required"`
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=500"`
	IsMandatory *bool           `json:"isMandatory"`
}

func (ep *HolidayEndpoint) Create(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)
	if err := core.Authorize(identity.Role, model.RoleLabAdmin, model.RoleSuperAdmin); err != nil {
		common.AbortWithError(c, err)
		return
	}

	var body HolidayCreateDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	mandatory := true
	if body.IsMandatory != nil {
		mandatory = *body.IsMandatory
	}

	h, err := ep.holidays.Create(c.Request.Context(), body.Date.Time, body.Name, body.Description, mandatory)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(h))
}

type HolidayUpdateDTO struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=200"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	IsMandatory *bool   `json:"isMandatory,omitempty"`
}

func (ep *HolidayEndpoint) Update(c *gin.Context) {
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

	var body HolidayUpdateDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	h, err := ep.holidays.Update(c.Request.Context(), uint(id), body.Name, body.Description, body.IsMandatory)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(h))
}

func (ep *HolidayEndpoint) Delete(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)
	if err := core.Authorize(identity.Role, model.RoleSuperAdmin); err != nil {
		common.AbortWithError(c, err)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	if err := ep.holidays.Delete(c.Request.Context(), uint(id)); err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}
