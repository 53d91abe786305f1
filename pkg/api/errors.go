package api

import (
	"github.com/picogrid/convoy-tracker/pkg/apperrors"
	"github.com/picogrid/convoy-tracker/pkg/models"
)

// wireError converts a taxonomy error to the envelope error shape. The
// stable code always rides in the extensions.
func wireError(err *apperrors.Error, path ...string) models.OperationError {
	ext := map[string]interface{}{"code": string(err.Code)}
	for k, v := range err.Extensions {
		ext[k] = v
	}
	return models.OperationError{
		Message:    err.Message,
		Path:       path,
		Extensions: ext,
	}
}

// errorResponse wraps a single taxonomy error into a response envelope.
func errorResponse(err *apperrors.Error, path ...string) models.OperationResponse {
	return models.OperationResponse{Errors: []models.OperationError{wireError(err, path...)}}
}
