package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/dto"
	"github.com/SscSPs/smart_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

const defaultMaxUploadBytes = 10 << 20

// multipartOverhead is allowed on top of the file limit for form boundaries and headers.
const multipartOverhead = 64 << 10

// fileHandler receives statement files and exposes upload status.
type fileHandler struct {
	uploadService portssvc.UploadSvc
	maxBytes      int64
}

func registerFileRoutes(rg *gin.RouterGroup, us portssvc.UploadSvc, maxBytes int64) {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	h := &fileHandler{uploadService: us, maxBytes: maxBytes}

	files := rg.Group("/files")
	{
		files.POST("/upload", h.uploadStatement)
		files.GET("/uploads", h.listUploads)
		files.GET("/uploads/:id", h.getUpload)
	}
}

// uploadStatement godoc
// @Summary Upload a bank statement
// @Description Archives, decodes, categorizes and ingests a .csv, .txt or .xlsx statement
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Statement file"
// @Success 201 {object} dto.StatementUploadResponse
// @Failure 400 {object} ErrorResponse "Unsupported, empty or non-financial file"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 500 {object} ErrorResponse "Failed to process statement"
// @Security BearerAuth
// @Router /files/upload [post]
func (h *fileHandler) uploadStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "File too large"})
			return
		}
		respondBindError(c, err, "file upload")
		return
	}
	if header.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "File too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondWithError(c, err, "Failed to read uploaded file")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(c, err, "Failed to read uploaded file")
		return
	}

	logger.Info("Received statement upload", slog.String("file_name", header.Filename), slog.Int64("size", header.Size))

	result, err := h.uploadService.ProcessStatement(c.Request.Context(), header.Filename, data)
	if err != nil {
		respondWithError(c, err, "Failed to process statement")
		return
	}
	c.JSON(http.StatusCreated, dto.ToStatementUploadResponse(result))
}

// listUploads godoc
// @Summary List uploads
// @Description Upload history, newest first
// @Tags files
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.UploadResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Failed to list uploads"
// @Security BearerAuth
// @Router /files/uploads [get]
func (h *fileHandler) listUploads(c *gin.Context) {
	var params dto.ListUploadsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	uploads, err := h.uploadService.ListUploads(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, err, "Failed to list uploads")
		return
	}
	resp := make([]dto.UploadResponse, len(uploads))
	for i := range uploads {
		resp[i] = dto.ToUploadResponse(&uploads[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getUpload godoc
// @Summary Get upload status
// @Tags files
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} dto.UploadResponse
// @Failure 404 {object} ErrorResponse "Upload not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve upload"
// @Security BearerAuth
// @Router /files/uploads/{id} [get]
func (h *fileHandler) getUpload(c *gin.Context) {
	upload, err := h.uploadService.GetUpload(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve upload")
		return
	}
	c.JSON(http.StatusOK, dto.ToUploadResponse(upload))
}
