package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduling-api/internal/models"
	"github.com/noah-isme/course-scheduling-api/pkg/calendar"
	appErrors "github.com/noah-isme/course-scheduling-api/pkg/errors"
)

func dateQuery(c *gin.Context, key string, required bool) (calendar.Date, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		if required {
			return calendar.Date{}, appErrors.Clone(appErrors.ErrInvalidArgument, key+" is required")
		}
		return calendar.Date{}, nil
	}
	d, err := calendar.ParseISODate(raw)
	if err != nil {
		return calendar.Date{}, appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, http.StatusBadRequest, "invalid "+key+": expected YYYY-MM-DD")
	}
	return d, nil
}

// uuidQuery returns the trimmed query value, rejecting anything that is not a UUID.
func uuidQuery(c *gin.Context, key string) (string, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw != "" && !models.IsUUID(raw) {
		return "", appErrors.Clone(appErrors.ErrInvalidArgument, key+" must be a UUID")
	}
	return raw, nil
}

func bindError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}
