package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/horario-planner/internal/dto"
	appErrors "github.com/noah-isme/horario-planner/pkg/errors"
	"github.com/noah-isme/horario-planner/pkg/response"
)

type plannerService interface {
	CheckConflicts(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictReportResponse, error)
	Score(ctx context.Context, req dto.ScoreRequest) (*dto.ScoreResponse, error)
	GenerateCombinations(ctx context.Context, req dto.CombinationRequest) (*dto.CombinationResponse, error)
	Timetable(ctx context.Context, req dto.TimetableRequest) (*dto.TimetableResponse, error)
}

type exportService interface {
	Export(ctx context.Context, format string, req dto.ExportRequest) (*dto.ExportFile, error)
}

// PlannerHandler exposes conflict checks, scoring, combination search and exports.
type PlannerHandler struct {
	planner plannerService
	export  exportService
}

// NewPlannerHandler builds a new handler.
func NewPlannerHandler(planner plannerService, export exportService) *PlannerHandler {
	return &PlannerHandler{planner: planner, export: export}
}

// CheckConflicts godoc
// @Summary Report overlapping blocks in a course selection
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.ConflictCheckRequest true "Course IDs and/or inline courses"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /planner/conflicts [post]
func (h *PlannerHandler) CheckConflicts(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if !bindPlannerJSON(c, &req) {
		return
	}
	resp, err := h.planner.CheckConflicts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Score godoc
// @Summary Score a course selection
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.ScoreRequest true "Course IDs and/or inline courses"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /planner/score [post]
func (h *PlannerHandler) Score(c *gin.Context) {
	var req dto.ScoreRequest
	if !bindPlannerJSON(c, &req) {
		return
	}
	resp, err := h.planner.Score(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// GenerateCombinations godoc
// @Summary Generate ranked conflict-free combinations
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.CombinationRequest true "Candidate pool and search bounds"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /planner/combinations [post]
func (h *PlannerHandler) GenerateCombinations(c *gin.Context) {
	var req dto.CombinationRequest
	if !bindPlannerJSON(c, &req) {
		return
	}
	resp, err := h.planner.GenerateCombinations(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Timetable godoc
// @Summary Lay a selection out on the weekly grid
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.TimetableRequest true "Selection and hour range"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /planner/timetable [post]
func (h *PlannerHandler) Timetable(c *gin.Context) {
	var req dto.TimetableRequest
	if !bindPlannerJSON(c, &req) {
		return
	}
	resp, err := h.planner.Timetable(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Export godoc
// @Summary Download the timetable of a selection
// @Tags Planner
// @Accept json
// @Produce octet-stream
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Param payload body dto.ExportRequest true "Selection and document title"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /planner/export [post]
func (h *PlannerHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if !bindPlannerJSON(c, &req) {
		return
	}
	file, err := h.export.Export(c.Request.Context(), c.DefaultQuery("format", "csv"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

func bindPlannerJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid planner payload"))
		return false
	}
	return true
}
