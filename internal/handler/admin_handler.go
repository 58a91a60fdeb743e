package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/horario-planner/internal/dto"
	"github.com/noah-isme/horario-planner/internal/models"
	appErrors "github.com/noah-isme/horario-planner/pkg/errors"
	"github.com/noah-isme/horario-planner/pkg/response"
)

const maxUploadBytes = 32 << 20

type catalogImporter interface {
	SaveSource(filename string, r io.Reader) (string, error)
	Enqueue(ctx context.Context, req dto.ImportRequest, requestedBy string, files []string) (*dto.ImportAccepted, error)
	Status(ctx context.Context, id string) (*models.CatalogImport, error)
}

type cacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// AdminHandler exposes operator endpoints for catalog maintenance.
type AdminHandler struct {
	importer catalogImporter
	cache    cacheInvalidator
}

// NewAdminHandler builds a new handler.
func NewAdminHandler(importer catalogImporter, cache cacheInvalidator) *AdminHandler {
	return &AdminHandler{importer: importer, cache: cache}
}

// ImportCatalog godoc
// @Summary Queue a catalog import
// @Description Uploaded scraper JSON files are stored first; without uploads every stored file is imported.
// @Tags Admin
// @Accept mpfd
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param files formData file false "Scraper JSON files"
// @Param semester formData string false "Semester label for files that do not carry one"
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/catalog/import [post]
func (h *AdminHandler) ImportCatalog(c *gin.Context) {
	var (
		req   dto.ImportRequest
		files []string
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
		form, err := c.MultipartForm()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid upload"))
			return
		}
		req.Semester = c.PostForm("semester")
		for _, header := range form.File["files"] {
			name, err := h.saveUpload(header)
			if err != nil {
				response.Error(c, err)
				return
			}
			files = append(files, name)
		}
	} else if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid import payload"))
			return
		}
	}

	accepted, err := h.importer.Enqueue(c.Request.Context(), req, operatorFromContext(c), files)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, accepted)
}

func (h *AdminHandler) saveUpload(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload "+header.Filename)
	}
	defer file.Close() //nolint:errcheck
	return h.importer.SaveSource(header.Filename, file)
}

// ImportStatus godoc
// @Summary Get a catalog import run
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Import ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/catalog/import/{id} [get]
func (h *AdminHandler) ImportStatus(c *gin.Context) {
	id, ok := idParam(c, "import")
	if !ok {
		return
	}
	run, err := h.importer.Status(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// InvalidateCache godoc
// @Summary Drop every cached catalog read
// @Tags Admin
// @Security BearerAuth
// @Success 204
// @Router /admin/cache [delete]
func (h *AdminHandler) InvalidateCache(c *gin.Context) {
	if err := h.cache.InvalidateCache(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
