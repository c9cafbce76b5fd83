package googlesheets

import (
	"net/http"
	"os"

	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/security"

	"github.com/gin-gonic/gin"
)

const defaultReadRange = "A1:H999"

type SheetImportHandler struct {
	service *SheetImportService
}

func NewHandler(service *SheetImportService) *SheetImportHandler {
	return &SheetImportHandler{service: service}
}

func (h *SheetImportHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("/imports")
	protectedRoutes.Use(security.JWTMiddleware(), security.Authorize("admin"))
	{
		protectedRoutes.POST("/assets/sheet", h.ImportAssetsFromSheet)
	}
}

type sheetImportPayload struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	Range         string `json:"range"`
	ProjectID     *int   `json:"project_id"`
}

func (h *SheetImportHandler) ImportAssetsFromSheet(c *gin.Context) {
	var payload sheetImportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	spreadsheetID := payload.SpreadsheetID
	if spreadsheetID == "" {
		spreadsheetID = os.Getenv("IMPORT_SPREADSHEET_ID")
	}
	if spreadsheetID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "spreadsheet_id is required"})
		return
	}

	readRange := payload.Range
	if readRange == "" {
		readRange = defaultReadRange
	}

	outcome, err := h.service.ImportAssetsFromSheet(spreadsheetID, readRange, payload.ProjectID, security.Actor(c))
	if err != nil {
		if custom_error.IsNotFound(err) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Sheet import failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, outcome)
}
