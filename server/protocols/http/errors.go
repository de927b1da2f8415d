package http

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gear6io/pqview/pkg/errors"
	"github.com/gear6io/pqview/server/catalog"
	"github.com/gear6io/pqview/server/export"
	"github.com/gear6io/pqview/server/reader"
	"github.com/gear6io/pqview/server/staging"
	"github.com/gear6io/pqview/server/table"
)

// statusByCode maps error codes to response statuses; unlisted codes are 500
var statusByCode = map[string]int{
	catalog.ErrCatalogUnavailable.String(): fiber.StatusServiceUnavailable,
	catalog.ErrFileNotFound.String():       fiber.StatusNotFound,
	staging.ErrStagingFailed.String():      fiber.StatusBadGateway,
	table.ErrSchemaReadFailed.String():     fiber.StatusUnprocessableEntity,
	reader.ErrInvalidPage.String():         fiber.StatusBadRequest,
	export.ErrUnsupportedFormat.String():   fiber.StatusBadRequest,
}

// errorBody is the JSON shape of every failed response
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func describeError(err error) (int, errorBody) {
	var fe *fiber.Error
	if stderrors.As(err, &fe) {
		return fe.Code, errorBody{Code: "http.request_rejected", Message: fe.Message}
	}

	if !errors.IsCoded(err) {
		// uncoded errors are internal; their text stays in the log
		return fiber.StatusInternalServerError, errorBody{
			Code:    errors.CommonInternal.String(),
			Message: "internal server error",
		}
	}

	code := errors.GetCode(err)
	status, ok := statusByCode[code]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	return status, errorBody{Code: code, Message: errors.AsError(err).Message}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status, body := describeError(err)

	event := s.logger.Warn()
	if status >= fiber.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.Err(err).
		Str("request_id", requestID(c)).
		Str("path", c.Path()).
		Int("status", status).
		Str("code", body.Code).
		Interface("context", errors.GetContext(err)).
		Msg("Request failed")

	return c.Status(status).JSON(body)
}
