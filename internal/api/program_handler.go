package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"alcyxob/neurofeedback-app/internal/domain"
	"alcyxob/neurofeedback-app/internal/service"
)

// ProgramHandler serves program and enrollment endpoints.
type ProgramHandler struct {
	programService service.ProgramService
	maxLimit       int
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService, maxLimit int) *ProgramHandler {
	return &ProgramHandler{programService: programService, maxLimit: maxLimit}
}

// ProgramRequest is the body of create and update calls. Active is only read on update.
type ProgramRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int64  `json:"duration"` // minutes
	Price       int64  `json:"price"`    // smallest currency unit
	Active      *bool  `json:"active"`
}

type ProgramListResponse struct {
	Programs []domain.Program `json:"programs"`
	Page     Page             `json:"page"`
}

type UserProgramListResponse struct {
	Programs []domain.UserProgram `json:"programs"`
	Page     Page                 `json:"page"`
}

// CreateProgram godoc
// @Summary Publish a new training program
// @Tags Programs
// @Security BearerAuth
// @Param program body ProgramRequest true "Program details"
// @Success 201 {object} domain.Program
// @Router /programs [post]
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	creator, ok := principal(c)
	if !ok {
		return
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), creator, req.Title, req.Description, req.Duration, req.Price)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

// UpdateProgram godoc
// @Summary Replace the mutable fields of a program (creator only)
// @Tags Programs
// @Security BearerAuth
// @Param programId path int true "Program ID"
// @Param program body ProgramRequest true "Program details, active is required"
// @Success 200 {object} domain.Program
// @Failure 403 {object} gin.H "Not the creator, or no such program"
// @Router /programs/{programId} [put]
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	programID, ok := programIDParam(c)
	if !ok {
		return
	}
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if req.Active == nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: active is required")
		return
	}
	sender, ok := principal(c)
	if !ok {
		return
	}

	program, err := h.programService.UpdateProgram(c.Request.Context(), sender, programID, req.Title, req.Description, req.Duration, req.Price, *req.Active)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// GetProgram godoc
// @Summary Get a program
// @Tags Programs
// @Security BearerAuth
// @Param programId path int true "Program ID"
// @Success 200 {object} domain.Program
// @Router /programs/{programId} [get]
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	programID, ok := programIDParam(c)
	if !ok {
		return
	}
	program, err := h.programService.GetProgram(c.Request.Context(), programID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// ListPrograms godoc
// @Summary Browse the program catalog
// @Tags Programs
// @Security BearerAuth
// @Param active query bool false "Only active programs"
// @Param offset query int false "Offset"
// @Param limit query int false "Limit (default 10)"
// @Success 200 {object} ProgramListResponse
// @Router /programs [get]
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	page := extractPage(c, h.maxLimit)
	activeOnly, _ := strconv.ParseBool(c.Query("active"))

	programs, total, err := h.programService.ListPrograms(c.Request.Context(), activeOnly, page.Offset, page.Limit)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProgramListResponse{Programs: programs, Page: page.withTotal(total, len(programs))})
}

// GetCreatorPrograms godoc
// @Summary Programs published by the authenticated creator
// @Tags Programs
// @Security BearerAuth
// @Success 200 {array} domain.Program
// @Router /creator/programs [get]
func (h *ProgramHandler) GetCreatorPrograms(c *gin.Context) {
	creator, ok := principal(c)
	if !ok {
		return
	}
	programs, err := h.programService.ProgramsByCreator(c.Request.Context(), creator)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

// PurchaseProgram godoc
// @Summary Purchase an active program
// @Tags Enrollments
// @Security BearerAuth
// @Param programId path int true "Program ID"
// @Success 201 {object} domain.Enrollment
// @Failure 404 {object} gin.H "Missing or inactive program"
// @Failure 409 {object} gin.H "Already purchased"
// @Router /programs/{programId}/purchase [post]
func (h *ProgramHandler) PurchaseProgram(c *gin.Context) {
	programID, ok := programIDParam(c)
	if !ok {
		return
	}
	buyer, ok := principal(c)
	if !ok {
		return
	}
	enrollment, err := h.programService.PurchaseProgram(c.Request.Context(), buyer, programID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// CompleteProgram godoc
// @Summary Mark a purchased program completed
// @Tags Enrollments
// @Security BearerAuth
// @Param programId path int true "Program ID"
// @Success 200 {object} domain.Enrollment
// @Failure 404 {object} gin.H "Not purchased"
// @Router /programs/{programId}/complete [post]
func (h *ProgramHandler) CompleteProgram(c *gin.Context) {
	programID, ok := programIDParam(c)
	if !ok {
		return
	}
	user, ok := principal(c)
	if !ok {
		return
	}
	enrollment, err := h.programService.CompleteProgram(c.Request.Context(), user, programID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// GetUserPrograms godoc
// @Summary Programs purchased by the authenticated user, in purchase order
// @Tags Enrollments
// @Security BearerAuth
// @Param offset query int false "Offset"
// @Param limit query int false "Limit (default 10)"
// @Success 200 {object} UserProgramListResponse
// @Router /me/programs [get]
func (h *ProgramHandler) GetUserPrograms(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	page := extractPage(c, h.maxLimit)
	programs, total, err := h.programService.GetUserPrograms(c.Request.Context(), user, page.Offset, page.Limit)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserProgramListResponse{Programs: programs, Page: page.withTotal(total, len(programs))})
}

// GetUserProgram godoc
// @Summary The authenticated user's enrollment in one program
// @Tags Enrollments
// @Security BearerAuth
// @Param programId path int true "Program ID"
// @Success 200 {object} domain.Enrollment
// @Router /me/programs/{programId} [get]
func (h *ProgramHandler) GetUserProgram(c *gin.Context) {
	programID, ok := programIDParam(c)
	if !ok {
		return
	}
	user, ok := principal(c)
	if !ok {
		return
	}
	enrollment, err := h.programService.GetUserProgram(c.Request.Context(), user, programID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// principal returns the authenticated user id, aborting the request if absent.
func principal(c *gin.Context) (string, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return "", false
	}
	return userID, true
}

func programIDParam(c *gin.Context) (uint64, bool) {
	raw := c.Param("programId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid program ID %q", raw))
		return 0, false
	}
	return id, true
}
