package assignments

import (
	"net/http"
	"strconv"

	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/security"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	service *Service
}

func NewHandler(service *Service) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

func (h *AssignmentHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.POST("/assignments", h.Assign)
		protectedRoutes.POST("/assignments/return", h.Unassign)
		protectedRoutes.POST("/assignments/reassign", h.Reassign)
		protectedRoutes.GET("/assignments/employee/:id", h.ListByEmployee)
	}
}

type assignPayload struct {
	Kind       string `json:"kind" binding:"required"`
	ResourceID int    `json:"resource_id" binding:"required"`
	EmployeeID int    `json:"employee_id" binding:"required"`
	Quantity   *int   `json:"quantity"`
	Notes      string `json:"notes"`
}

type reassignPayload struct {
	Kind           string `json:"kind" binding:"required"`
	ResourceID     int    `json:"resource_id" binding:"required"`
	FromEmployeeID int    `json:"from_employee_id"`
	ToEmployeeID   int    `json:"to_employee_id" binding:"required"`
	Notes          string `json:"notes"`
}

func (h *AssignmentHandler) Assign(c *gin.Context) {
	var payload assignPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	kind, err := metadata.NewResourceKind(payload.Kind)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid resource kind", "details": err.Error()})
		return
	}

	assignment, err := h.service.Assign(AssignRequest{
		Kind:       kind,
		ResourceID: payload.ResourceID,
		EmployeeID: payload.EmployeeID,
		Quantity:   payload.Quantity,
		Notes:      payload.Notes,
	}, security.Actor(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) Unassign(c *gin.Context) {
	var payload assignPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	kind, err := metadata.NewResourceKind(payload.Kind)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid resource kind", "details": err.Error()})
		return
	}

	err = h.service.Unassign(UnassignRequest{
		Kind:       kind,
		ResourceID: payload.ResourceID,
		EmployeeID: payload.EmployeeID,
		Quantity:   payload.Quantity,
		Notes:      payload.Notes,
	}, security.Actor(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Resource returned successfully"})
}

func (h *AssignmentHandler) Reassign(c *gin.Context) {
	var payload reassignPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	kind, err := metadata.NewResourceKind(payload.Kind)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid resource kind", "details": err.Error()})
		return
	}

	assignment, err := h.service.Reassign(kind, payload.ResourceID, payload.FromEmployeeID, payload.ToEmployeeID, payload.Notes, security.Actor(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) ListByEmployee(c *gin.Context) {
	employeeID, err := strconv.Atoi(c.Param("id"))
	if err != nil || employeeID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Employee id must be numeric"})
		return
	}

	rows, err := h.service.ListByEmployee(employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list assignments", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rows)
}

func respondWithError(c *gin.Context, err error) {
	switch {
	case custom_error.IsNotFound(err):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case custom_error.IsConflict(err):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case custom_error.IsInvalidState(err):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case custom_error.IsValidation(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Operation failed", "details": err.Error()})
	}
}
