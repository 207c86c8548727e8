package controllers

import (
	"errors"

	apperrors "github.com/yuvalsigall-cpu/menu-cleaner/common/errors"
	"github.com/yuvalsigall-cpu/menu-cleaner/services"
	"github.com/yuvalsigall-cpu/menu-cleaner/tabular"
)

// toAppError maps service errors onto HTTP errors.
func toAppError(err error) *apperrors.Error {
	var schemaErr *tabular.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		return apperrors.Unprocessable(schemaErr.Error(), err).With("missing", schemaErr.Missing)
	case errors.Is(err, services.ErrInvalidUpload):
		return apperrors.BadRequest(err.Error(), err)
	case errors.Is(err, services.ErrJobNotFound):
		return apperrors.NotFound("Job not found", err)
	case errors.Is(err, services.ErrJobNotReady):
		return apperrors.Conflict("Job report not ready", err)
	default:
		return apperrors.Internal(err)
	}
}
