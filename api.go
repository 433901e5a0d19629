package mdpress

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
)

// publishRequest is the payload for POST /api/posts. The schema is strict:
// unknown fields are rejected at decode time.
type publishRequest struct {
	Slug      string `json:"slug"`
	Content   string `json:"content"`
	Overwrite bool   `json:"overwrite"`
}

// Validate checks required fields, treating whitespace-only values as missing.
func (r publishRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Slug,
			validation.Required.Error("Slug is required"),
			validation.By(notBlank("Slug is required")),
		),
		validation.Field(&r.Content,
			validation.Required.Error("Markdown content is required"),
			validation.By(notBlank("Markdown content is required")),
		),
	)
}

func notBlank(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

// handlePublish is the single write endpoint. One call moves through
// decode → schema validation → slug normalization → existence check →
// write → invalidation; each failure mode maps to its own status code.
func (a *App) handlePublish(c echo.Context) error {
	if !a.publishLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, echo.Map{
			"error": "Too many publish requests. Try again later.",
		})
	}

	var req publishRequest
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if fieldErrs, ok := decodeFieldErrors(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": fieldErrs})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Request body must be valid JSON.",
		})
	}
	if dec.More() {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Request body must be valid JSON.",
		})
	}

	if err := req.Validate(); err != nil {
		var errs validation.Errors
		if errors.As(err, &errs) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": errs})
		}
		return err
	}

	slug := NormalizeSlug(req.Slug)
	if slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Provided slug results in an empty filename after normalization.",
		})
	}

	replaced, err := a.Store.WritePost(slug, req.Content, req.Overwrite)
	if err != nil {
		if errors.Is(err, ErrPostExists) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "A post with this slug already exists. Pass `overwrite: true` to replace it.",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Unable to save the post.",
			"details": err.Error(),
		})
	}

	a.Cache.InvalidatePost(slug)

	status := http.StatusCreated
	if replaced {
		status = http.StatusOK
	}
	return c.JSON(status, echo.Map{
		"message":  "Post saved successfully.",
		"slug":     slug,
		"location": "/blog/" + slug,
		"filePath": a.Store.Path(slug),
	})
}

// decodeFieldErrors maps type mismatches and unknown fields onto per-field
// detail. Syntax errors are not field errors and fall through to 400.
func decodeFieldErrors(err error) (validation.Errors, bool) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return validation.Errors{field: fmt.Errorf("must be of type %s", typeErr.Type)}, true
	}
	// encoding/json exposes unknown-field failures only as a formatted
	// message; there is no typed error to match.
	const prefix = "json: unknown field "
	if msg := err.Error(); strings.HasPrefix(msg, prefix) {
		field := strings.Trim(strings.TrimPrefix(msg, prefix), `"`)
		return validation.Errors{field: errors.New("unknown field")}, true
	}
	return nil, false
}
