package imports

import (
	"net/http"

	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/security"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *ImportHandler {
	return &ImportHandler{engine: engine}
}

func (h *ImportHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("/imports")
	protectedRoutes.Use(security.JWTMiddleware(), security.Authorize("admin"))
	{
		protectedRoutes.POST("/assets", h.ImportAssets)
		protectedRoutes.POST("/sims", h.ImportSimCards)
	}
}

type assetImportPayload struct {
	Rows      []AssetRow `json:"rows" binding:"required"`
	ProjectID *int       `json:"project_id"`
}

type simImportPayload struct {
	Rows      []SimRow `json:"rows" binding:"required"`
	ProjectID *int     `json:"project_id"`
}

func (h *ImportHandler) ImportAssets(c *gin.Context) {
	var payload assetImportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	outcome, err := h.engine.ImportAssets(payload.Rows, payload.ProjectID, security.Actor(c))
	if err != nil {
		respondWithBatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func (h *ImportHandler) ImportSimCards(c *gin.Context) {
	var payload simImportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	outcome, err := h.engine.ImportSimCards(payload.Rows, payload.ProjectID, security.Actor(c))
	if err != nil {
		respondWithBatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func respondWithBatchError(c *gin.Context, err error) {
	switch {
	case custom_error.IsNotFound(err):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case custom_error.IsValidation(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Import failed", "details": err.Error()})
	}
}
