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

type UserEndpoint struct {
	users *core.UserService
}

func RegisterUsers(r *gin.RouterGroup, users *core.UserService) {
	ep := &UserEndpoint{users: users}
	r.GET("/users", ep.List)
	r.GET("/users/:id", ep.Get)
	r.POST("/users", ep.Create)
	r.POST("/users/:id/deactivate", ep.Deactivate)
}

func (ep *UserEndpoint) List(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)
	if err := core.Authorize(identity.Role, model.RoleLabAdmin, model.RoleSuperAdmin); err != nil {
		common.AbortWithError(c, err)
		return
	}

	includeInactive := c.Query("includeInactive") == "true"
	users, err := ep.users.List(c.Request.Context(), includeInactive)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(users))
}

func (ep *UserEndpoint) Get(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	// Employees may only view themselves.
	if uint(id) != identity.UserID {
		if err := core.Authorize(identity.Role, model.RoleLabAdmin, model.RoleSuperAdmin); err != nil {
			common.AbortWithError(c, err)
			return
		}
	}

	user, err := ep.users.Get(c.Request.Context(), uint(id))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(user))
}

type UserCreateDTO struct {
	EmployeeCode string           `json:"employeeCode" binding:"required,max=32"`
	FirstName    string           `json:"firstName" binding:"required,max=100"`
	LastName     string           `json:"lastName" binding:"max=100"`
	Email        string           `json:"email" binding:"required,email"`
	Password     string           `json:"password" binding:"required,min=8"`
	Role         string           `json:"role" binding:"omitempty,oneof=EMPLOYEE LAB_ADMIN SUPER_ADMIN"`
	JoinDate     *common.DateOnly `json:"joinDate"`
	DeviceTag    string           `json:"deviceTag" binding:"max=64"`
}

func (ep *UserEndpoint) Create(c *gin.Context) {
	identity := middlewares.CallerIdentity(c)
	if err := core.Authorize(identity.Role, model.RoleSuperAdmin); err != nil {
		common.AbortWithError(c, err)
		return
	}

	var body UserCreateDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	in := core.CreateUserInput{
		EmployeeCode: body.EmployeeCode,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		Email:        body.Email,
		Password:     body.Password,
		Role:         model.Role(body.Role),
		DeviceTag:    body.DeviceTag,
	}
	if body.JoinDate != nil && !body.JoinDate.IsZero() {
		in.JoinDate = &body.JoinDate.Time
	}

	user, err := ep.users.Create(c.Request.Context(), in)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(user))
}

type UserDeactivateDTO struct {
	EndDate *common.DateOnly `json:"endDate"`
}

func (ep *UserEndpoint) Deactivate(c *gin.Context) {
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

	// The end date body is optional.
	var body UserDeactivateDTO
	if err := c.ShouldBindJSON(&body); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var endDate *time.Time
	if body.EndDate != nil && !body.EndDate.IsZero() {
		endDate = &body.EndDate.Time
	}
	if err := ep.users.Deactivate(c.Request.Context(), uint(id), endDate); err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}
