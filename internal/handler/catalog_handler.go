package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noah-isme/horario-planner/internal/middleware"
	"github.com/noah-isme/horario-planner/internal/models"
	appErrors "github.com/noah-isme/horario-planner/pkg/errors"
	"github.com/noah-isme/horario-planner/pkg/response"
)

type catalogService interface {
	ListFaculties(ctx context.Context) ([]models.Faculty, bool, error)
	ListSchools(ctx context.Context, facultyID string) ([]models.School, bool, error)
	ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error)
	GetCourse(ctx context.Context, id string) (*models.CourseWithBlocks, error)
	BlocksByDay(ctx context.Context, rawDay string) ([]models.DayBlock, error)
	Stats(ctx context.Context) (*models.CatalogStats, error)
	InitialData(ctx context.Context) (*models.InitialData, error)
}

// CatalogHandler exposes read-only catalog endpoints.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler builds a new handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListFaculties godoc
// @Summary List faculties
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faculties [get]
func (h *CatalogHandler) ListFaculties(c *gin.Context) {
	faculties, hit, err := h.service.ListFaculties(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, faculties, nil, middleware.ExtractMeta(c))
}

// ListSchools godoc
// @Summary List the schools of a faculty
// @Tags Catalog
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculties/{id}/schools [get]
func (h *CatalogHandler) ListSchools(c *gin.Context) {
	facultyID, ok := idParam(c, "faculty")
	if !ok {
		return
	}
	schools, hit, err := h.service.ListSchools(c.Request.Context(), facultyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, schools, nil, middleware.ExtractMeta(c))
}

// ListCourses godoc
// @Summary Search courses
// @Tags Catalog
// @Produce json
// @Param search query string false "Code or name fragment"
// @Param school query string false "School ID"
// @Param category query string false "MANDATORY, ELECTIVE or UNKNOWN"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 200)"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	schoolID := c.Query("school")
	if schoolID != "" {
		if _, err := uuid.Parse(schoolID); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "school must be a UUID"))
			return
		}
	}
	h.listCourses(c, schoolID)
}

// ListSchoolCourses godoc
// @Summary List the courses of a school
// @Tags Catalog
// @Produce json
// @Param id path string true "School ID"
// @Param search query string false "Code or name fragment"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 200)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schools/{id}/courses [get]
func (h *CatalogHandler) ListSchoolCourses(c *gin.Context) {
	schoolID, ok := idParam(c, "school")
	if !ok {
		return
	}
	h.listCourses(c, schoolID)
}

func (h *CatalogHandler) listCourses(c *gin.Context, schoolID string) {
	filter := models.CourseFilter{
		SchoolID: schoolID,
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 50),
	}
	courses, pagination, err := h.service.ListCourses(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// GetCourse godoc
// @Summary Get a course with its weekly blocks
// @Tags Catalog
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	id, ok := idParam(c, "course")
	if !ok {
		return
	}
	course, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// BlocksByDay godoc
// @Summary List the blocks taught on a day
// @Tags Catalog
// @Produce json
// @Param day path string true "Day name or abbreviation (LU, Martes, friday...)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /time-blocks/day/{day} [get]
func (h *CatalogHandler) BlocksByDay(c *gin.Context) {
	blocks, err := h.service.BlocksByDay(c.Request.Context(), c.Param("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks, nil)
}

// Stats godoc
// @Summary Catalog coverage statistics
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/stats [get]
func (h *CatalogHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// InitialData godoc
// @Summary Faculties, schools and courses in one payload
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/initial [get]
func (h *CatalogHandler) InitialData(c *gin.Context) {
	data, err := h.service.InitialData(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, data, nil, middleware.ExtractMeta(c))
}
