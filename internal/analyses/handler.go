package analyses

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/extract"
	"resume-matcher/internal/shared/server/respond"
	"resume-matcher/internal/shared/storage/object"
)

const defaultMaxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/process", h.process)
	rg.GET("/history", h.history)
	rg.GET("/history/:id/resume", h.archivedResume)
	rg.POST("/clear-history", h.clearHistory)
	rg.GET("/check-ollama", h.checkOllama)
}

func (h *Handler) process(c *gin.Context) {
	if c.Request.ContentLength > h.MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeFileTooLarge, "resume file is too large", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeFileTooLarge, "resume file is too large", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "resume file is required", nil)
		return
	}
	c.Set("filename", fileHeader.Filename)

	jobDescription := c.PostForm("job_desc")
	if strings.TrimSpace(jobDescription) == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "job_desc is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read resume file", nil)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read resume file", nil)
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), Request{
		ResumeBytes:    data,
		ResumeFilename: fileHeader.Filename,
		JobDescription: jobDescription,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
		case extract.KindOf(err) == extract.KindUnsupported:
			respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeUnsupportedFormat, err.Error(), gin.H{
				"filename":  fileHeader.Filename,
				"supported": []string{".pdf", ".docx", ".txt"},
			})
		case extract.KindOf(err) == extract.KindFailed:
			respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeExtractionFailed, err.Error(), gin.H{
				"filename": fileHeader.Filename,
			})
		case errors.Is(err, ErrScoring):
			respond.Error(c, http.StatusBadGateway, ErrorCodeEmbeddingFailed, "embedding model request failed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "analysis failed", nil)
		}
		return
	}

	c.Set("historyId", result.HistoryID)
	c.Set("suggestionStatus", string(result.SuggestionStatus))
	respond.OK(c, result)
}

func (h *Handler) history(c *gin.Context) {
	respond.OK(c, h.Svc.HistoryRecords(c.Request.Context()))
}

func (h *Handler) archivedResume(c *gin.Context) {
	rec, rc, err := h.Svc.ArchivedResume(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "no archived resume for this record", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "unable to open archived resume", nil)
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "unable to read archived resume", nil)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rec.Filename}))
	c.Data(http.StatusOK, object.DetectContentType(data), data)
}

func (h *Handler) clearHistory(c *gin.Context) {
	if err := h.Svc.ClearHistory(c.Request.Context()); err != nil {
		respond.JSON(c, http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}
	respond.OK(c, gin.H{"status": "success"})
}

func (h *Handler) checkOllama(c *gin.Context) {
	respond.OK(c, gin.H{
		"available": h.Svc.SuggestionsAvailable(c.Request.Context()),
		"model":     h.Svc.SuggestionModel(),
	})
}
