package rest

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/logger"
)

// Error kinds reported in the "kind" field of error bodies.
const (
	KindUnsupportedFileType = "unsupported_file_type"
	KindExtractionEmpty     = "extraction_empty"
	KindInvalidInput        = "invalid_input"
	KindIndexNotFound       = "index_not_found"
	KindCapabilityFailure   = "capability_failure"
	KindInternal            = "internal"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// classify maps an error to its HTTP status and kind.
func classify(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return fiber.StatusBadRequest, KindUnsupportedFileType
	case errors.Is(err, domain.ErrExtractionEmpty):
		return fiber.StatusBadRequest, KindExtractionEmpty
	case errors.Is(err, domain.ErrIndexNotFound):
		return fiber.StatusBadRequest, KindIndexNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, KindInvalidInput
	case errors.Is(err, domain.ErrCapabilityFailure):
		return fiber.StatusBadGateway, KindCapabilityFailure
	case errors.As(err, &fe):
		if fe.Code < fiber.StatusInternalServerError {
			return fe.Code, KindInvalidInput
		}
		return fe.Code, KindInternal
	default:
		return fiber.StatusInternalServerError, KindInternal
	}
}

func errorHandler(c fiber.Ctx, err error) error {
	status, kind := classify(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Method(), c.Path(), err)
	} else {
		logger.Debug("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(errorBody{Error: err.Error(), Kind: kind})
}
