package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// DefaultMaxUploadSize applies when no limit is configured.
const DefaultMaxUploadSize = 50 * 1024 * 1024 // 50MB

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var (
	allowedCatalogExtensions = map[string]bool{
		".csv":  true,
		".txt":  true,
		".xlsx": true,
		".xls":  true,
	}

	allowedCatalogTypes = map[string]bool{
		"text/csv":                 true,
		"application/csv":          true,
		"text/plain":               true,
		"application/vnd.ms-excel": true,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	}
)

// LookupRequest is the debug lookup input, read from the query string or
// the multipart form.
type LookupRequest struct {
	Query  string `form:"q" validate:"required,max=256"`
	Format string `form:"format" validate:"omitempty,oneof=json csv"`
}

// HistoryRequest bounds the run history listing.
type HistoryRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// RequestValidator handles all input validation
type RequestValidator struct {
	validate      *validator.Validate
	maxUploadSize int64
}

func NewRequestValidator(maxUploadSize int64) *RequestValidator {
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}
	return &RequestValidator{
		validate:      validator.New(),
		maxUploadSize: maxUploadSize,
	}
}

// ParseLookupRequest binds and validates q and format.
func (rv *RequestValidator) ParseLookupRequest(c *gin.Context) (LookupRequest, error) {
	var req LookupRequest
	if err := c.ShouldBind(&req); err != nil {
		return req, fmt.Errorf("invalid lookup parameters: %w", err)
	}
	req.Query = strings.TrimSpace(req.Query)
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if err := rv.validate.Struct(&req); err != nil {
		return req, errors.New("q is required (max 256 characters) and format must be json or csv")
	}
	if req.Format == "" {
		req.Format = FormatJSON
	}
	return req, nil
}

// ParseHistoryRequest binds limit, defaulting to 20.
func (rv *RequestValidator) ParseHistoryRequest(c *gin.Context) (int, error) {
	var req HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return 0, errors.New("invalid limit")
	}
	if err := rv.validate.Struct(&req); err != nil {
		return 0, errors.New("limit must be between 1 and 100")
	}
	if req.Limit == 0 {
		req.Limit = 20
	}
	return req.Limit, nil
}

// IsValidCatalogFile accepts CSV and Excel uploads by content type or extension.
func (rv *RequestValidator) IsValidCatalogFile(file *multipart.FileHeader) bool {
	if allowedCatalogTypes[file.Header.Get("Content-Type")] {
		return true
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	return allowedCatalogExtensions[ext]
}

// ValidateFileSize checks if file size is within limits
func (rv *RequestValidator) ValidateFileSize(file *multipart.FileHeader) error {
	if file.Size > rv.maxUploadSize {
		return fmt.Errorf("file too large (max %dMB)", rv.maxUploadSize/(1024*1024))
	}
	return nil
}

// CatalogFile returns the validated "file" part of a multipart request.
func (rv *RequestValidator) CatalogFile(c *gin.Context) (*multipart.FileHeader, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("file is required")
	}
	if !rv.IsValidCatalogFile(file) {
		return nil, errors.New("invalid file type. Only CSV and Excel files are allowed")
	}
	if err := rv.ValidateFileSize(file); err != nil {
		return nil, err
	}
	return file, nil
}
