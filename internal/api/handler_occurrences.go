package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sindico-backend/internal/ledger"
	"sindico-backend/internal/model"
	"sindico-backend/internal/mw"
	"sindico-backend/internal/store"
)

type createOccurrenceRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description" binding:"required,max=1000"`
	Type        string `json:"type" binding:"required,oneof=ELEVATOR MAINTENANCE NOISE SECURITY CLEANING FRONT_DESK PARKING_SPOT RENOVATION ANIMAL OTHER"`
	Priority    string `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Location    string `json:"location" binding:"omitempty,max=100"`
}

// CreateOccurrence handles POST /api/occurrences.
func (h *Handler) CreateOccurrence(c *gin.Context) {
	var req createOccurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	occ, err := h.svc.Create(c.Request.Context(), ledger.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        model.OccurrenceType(req.Type),
		Priority:    model.OccurrencePriority(req.Priority),
		Location:    req.Location,
	}, mw.UserID(c), mw.CondominiumID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, occ)
}

type listOccurrencesQuery struct {
	Page         int    `form:"page,default=1" binding:"min=1"`
	Limit        int    `form:"limit,default=10" binding:"min=1,max=100"`
	Status       string `form:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CANCELLED"`
	Type         string `form:"type" binding:"omitempty,oneof=ELEVATOR MAINTENANCE NOISE SECURITY CLEANING FRONT_DESK PARKING_SPOT RENOVATION ANIMAL OTHER"`
	Priority     string `form:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Search       string `form:"search"`
	CreatedByID  string `form:"createdById"`
	AssignedToID string `form:"assignedToId"`
}

// ListOccurrences handles GET /api/occurrences.
func (h *Handler) ListOccurrences(c *gin.Context) {
	var q listOccurrencesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, pagination, err := h.svc.List(c.Request.Context(), mw.CondominiumID(c), store.Filter{
		Status:       model.OccurrenceStatus(q.Status),
		Type:         model.OccurrenceType(q.Type),
		Priority:     model.OccurrencePriority(q.Priority),
		CreatedByID:  q.CreatedByID,
		AssignedToID: q.AssignedToID,
		Search:       q.Search,
	}, q.Page, q.Limit)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       rows,
		"pagination": pagination,
	})
}

// GetStatistics handles GET /api/occurrences/statistics.
func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.svc.Statistics(c.Request.Context(), mw.CondominiumID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetOccurrence handles GET /api/occurrences/:id.
func (h *Handler) GetOccurrence(c *gin.Context) {
	occ, err := h.svc.Get(c.Request.Context(), c.Param("id"), mw.CondominiumID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, occ)
}

type updateOccurrenceRequest struct {
	Title         *string `json:"title" binding:"omitempty,max=100"`
	Description   *string `json:"description" binding:"omitempty,max=1000"`
	Type          *string `json:"type" binding:"omitempty,oneof=ELEVATOR MAINTENANCE NOISE SECURITY CLEANING FRONT_DESK PARKING_SPOT RENOVATION ANIMAL OTHER"`
	Priority      *string `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status        *string `json:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CANCELLED"`
	Location      *string `json:"location" binding:"omitempty,max=100"`
	InternalNotes *string `json:"internalNotes" binding:"omitempty,max=500"`
	AssignedToID  *string `json:"assignedToId" binding:"omitempty,max=36"`
}

// UpdateOccurrence handles PATCH /api/occurrences/:id.
func (h *Handler) UpdateOccurrence(c *gin.Context) {
	var req updateOccurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := ledger.UpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		InternalNotes: req.InternalNotes,
		AssignedToID:  req.AssignedToID,
	}
	if req.Type != nil {
		t := model.OccurrenceType(*req.Type)
		in.Type = &t
	}
	if req.Priority != nil {
		p := model.OccurrencePriority(*req.Priority)
		in.Priority = &p
	}
	if req.Status != nil {
		st := model.OccurrenceStatus(*req.Status)
		in.Status = &st
	}

	occ, err := h.svc.Update(c.Request.Context(), c.Param("id"), in, mw.UserID(c), mw.CondominiumID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, occ)
}

// DeleteOccurrence handles DELETE /api/occurrences/:id.
func (h *Handler) DeleteOccurrence(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("id"), mw.CondominiumID(c)); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "occurrence removed successfully"})
}
