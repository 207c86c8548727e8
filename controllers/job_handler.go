package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yuvalsigall-cpu/menu-cleaner/common/errors"
	"github.com/yuvalsigall-cpu/menu-cleaner/services"
)

// JobHandler serves async cleanup jobs and the run history.
type JobHandler struct {
	svc       CleanerServiceAPI
	validator *RequestValidator
	timeout   time.Duration
}

func NewJobHandler(svc CleanerServiceAPI, validator *RequestValidator) *JobHandler {
	return &JobHandler{
		svc:       svc,
		validator: validator,
		timeout:   10 * time.Second,
	}
}

func jobID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		_ = c.Error(apperrors.BadRequest("Job ID required", nil))
		return "", false
	}
	return id, true
}

// GetJob returns the job metadata stored in Redis
func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	job, err := h.svc.Job(ctx, id)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	c.JSON(http.StatusOK, job)
}

// GetReport returns a presigned download URL for a finished job.
func (h *JobHandler) GetReport(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	url, err := h.svc.ReportURL(ctx, id)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":        url,
		"method":     http.MethodGet,
		"expires_in": int64(services.ReportURLTTL / time.Second),
	})
}

// Lookup runs a debug lookup against a job's stored upload.
func (h *JobHandler) Lookup(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	req, err := h.validator.ParseLookupRequest(c)
	if err != nil {
		_ = c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultContextTimeout)
	defer cancel()

	res, err := h.svc.Lookup(ctx, id, req.Query)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	writeLookup(c, res, req.Format)
}

// ListRuns returns the most recent run summaries.
func (h *JobHandler) ListRuns(c *gin.Context) {
	limit, err := h.validator.ParseHistoryRequest(c)
	if err != nil {
		_ = c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	runs, err := h.svc.History(ctx, limit)
	if err != nil {
		_ = c.Error(apperrors.Internal(fmt.Errorf("failed to list runs: %w", err)))
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
