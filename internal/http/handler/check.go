package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"breachguard/internal/hibp"
	"breachguard/internal/logger"
	"breachguard/internal/model"
	"breachguard/internal/service"
)

var validate = validator.New()

// CheckRequest is the body of POST /api/check.
type CheckRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CheckResponse is the body returned by POST /api/check.
type CheckResponse struct {
	Email    string         `json:"email"`
	Found    bool           `json:"found"`
	Count    int            `json:"count"`
	Breaches []model.Breach `json:"breaches"`
	Source   string         `json:"source"`
	IsDemo   bool           `json:"is_demo"`
}

func newCheckResponse(c *model.Check) CheckResponse {
	return CheckResponse{
		Email:    c.Email,
		Found:    c.Found,
		Count:    c.Count,
		Breaches: c.Breaches,
		Source:   c.Source,
		IsDemo:   c.IsDemo,
	}
}

// CheckEmail checks an email against breach sources.
//
// @Summary Check an email for known breaches
// @Tags checks
// @Accept json
// @Produce json
// @Param request body CheckRequest true "email to check"
// @Success 200 {object} CheckResponse
// @Failure 422 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/check [post]
func CheckEmail(checkSvc service.CheckService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CheckRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "request body must be a JSON object with an email field")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "value is not a valid email address")
		}

		res, err := checkSvc.Check(c.UserContext(), req.Email)
		if err != nil {
			var upErr *hibp.UpstreamError
			if errors.As(err, &upErr) {
				logger.Warn(c.UserContext(), "breach lookup rejected", zap.Int("upstream_status", upErr.StatusCode))
				return writeError(c, upErr.StatusCode, "UPSTREAM_ERROR", upErr.Body)
			}
			logger.Error(c.UserContext(), "breach check failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		}
		return c.JSON(newCheckResponse(res))
	}
}

// ListChecks returns persisted checks, newest first.
//
// @Summary List recent checks
// @Tags checks
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "page offset" default(0)
// @Success 200 {object} service.CheckListResult
// @Failure 400 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /api/checks [get]
func ListChecks(checkSvc service.CheckService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := checkSvc.List(c.UserContext(), limit, offset)
		if err != nil {
			if errors.Is(err, service.ErrHistoryUnavailable) {
				return writeError(c, fiber.StatusServiceUnavailable, "HISTORY_UNAVAILABLE", "check history is not configured")
			}
			logger.Error(c.UserContext(), "list checks failed", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
