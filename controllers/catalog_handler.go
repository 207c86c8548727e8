package controllers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yuvalsigall-cpu/menu-cleaner/common/errors"
	"github.com/yuvalsigall-cpu/menu-cleaner/common/logger"
	"github.com/yuvalsigall-cpu/menu-cleaner/services"
	"github.com/yuvalsigall-cpu/menu-cleaner/tabular"
	"go.uber.org/zap"
)

const lookupExportName = "lookup_results.csv"

// CatalogHandler serves cleanups of uploaded catalogs.
type CatalogHandler struct {
	svc       CleanerServiceAPI
	validator *RequestValidator
	timeout   time.Duration
}

func NewCatalogHandler(svc CleanerServiceAPI, validator *RequestValidator) *CatalogHandler {
	return &CatalogHandler{
		svc:       svc,
		validator: validator,
		timeout:   DefaultContextTimeout,
	}
}

// Clean runs a cleanup and returns the workbook. With ?async=true the upload
// is queued and a job id is returned instead.
func (h *CatalogHandler) Clean(c *gin.Context) {
	file, err := h.validator.CatalogFile(c)
	if err != nil {
		_ = c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}
	fileHandle, err := file.Open()
	if err != nil {
		_ = c.Error(apperrors.Internal(fmt.Errorf("failed to open file: %w", err)))
		return
	}
	defer fileHandle.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if strings.ToLower(strings.TrimSpace(c.Query("async"))) == "true" {
		data, err := io.ReadAll(fileHandle)
		if err != nil {
			_ = c.Error(apperrors.BadRequest("Failed to read file", err))
			return
		}
		jobID, err := h.svc.Enqueue(ctx, file.Filename, data)
		if err != nil {
			logger.For(c).Error("Failed to enqueue catalog cleanup", zap.Error(err))
			_ = c.Error(apperrors.Internal(err))
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"job_id":  jobID,
			"message": "Cleanup queued for processing",
		})
		return
	}

	res, err := h.svc.Clean(ctx, file.Filename, fileHandle)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}

	c.Header(HeaderRowsTotal, strconv.Itoa(res.Summary.Total))
	c.Header(HeaderRowsKept, strconv.Itoa(res.Summary.Kept))
	c.Header(HeaderRowsProblematic, strconv.Itoa(res.Summary.Problematic))
	c.Header(HeaderRunID, res.RunID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.ReportName))
	c.Data(http.StatusOK, tabular.ContentTypeXLSX, res.Workbook)
}

// Validate returns the run counts of an upload without rendering a workbook.
func (h *CatalogHandler) Validate(c *gin.Context) {
	file, err := h.validator.CatalogFile(c)
	if err != nil {
		_ = c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}
	fileHandle, err := file.Open()
	if err != nil {
		_ = c.Error(apperrors.Internal(fmt.Errorf("failed to open file: %w", err)))
		return
	}
	defer fileHandle.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	validation, err := h.svc.Validate(ctx, file.Filename, fileHandle)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	c.JSON(http.StatusOK, validation)
}

// Lookup runs a debug lookup against an uploaded file.
func (h *CatalogHandler) Lookup(c *gin.Context) {
	req, err := h.validator.ParseLookupRequest(c)
	if err != nil {
		_ = c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}
	file, err := h.validator.CatalogFile(c)
	if err != nil {
		_ = c.Error(apperrors.BadRequest(err.Error(), err))
		return
	}
	fileHandle, err := file.Open()
	if err != nil {
		_ = c.Error(apperrors.Internal(fmt.Errorf("failed to open file: %w", err)))
		return
	}
	defer fileHandle.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.svc.LookupUpload(ctx, fileHandle, req.Query)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	writeLookup(c, res, req.Format)
}

func writeLookup(c *gin.Context, res *services.LookupResult, format string) {
	if format != FormatCSV {
		c.JSON(http.StatusOK, res)
		return
	}
	var buf bytes.Buffer
	if err := res.WriteCSV(&buf); err != nil {
		_ = c.Error(apperrors.Internal(fmt.Errorf("failed to export lookup: %w", err)))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", lookupExportName))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
