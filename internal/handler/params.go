package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/football-sim-service/internal/repository"
	"github.com/maxviazov/football-sim-service/internal/service"
)

// pathID parses a positive integer path parameter. The zero value is left for
// the service to reject so the error shape stays the same.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil {
		return 0, service.NewInvalidInputError(name, "must be a valid integer")
	}
	return id, nil
}

// pageQuery reads limit/offset. Atoi errors are ignored intentionally, as 0 is a
// valid default handled by the service layer.
func pageQuery(c *gin.Context) repository.Page {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return repository.Page{Limit: limit, Offset: offset}
}

// seasonQuery returns nil when the season parameter is absent.
func seasonQuery(c *gin.Context) (*int, error) {
	raw := strings.TrimSpace(c.Query("season"))
	if raw == "" {
		return nil, nil
	}
	season, err := strconv.Atoi(raw)
	if err != nil {
		return nil, service.NewInvalidInputError("season", "must be a valid integer")
	}
	return &season, nil
}

// boolQuery flexibly parses boolean-like query parameters; nil means "any".
func boolQuery(c *gin.Context, name string) (*bool, error) {
	raw := strings.ToLower(strings.TrimSpace(c.Query(name)))
	switch raw {
	case "":
		return nil, nil
	case "true", "1":
		v := true
		return &v, nil
	case "false", "0":
		v := false
		return &v, nil
	default:
		return nil, service.NewInvalidInputError(name, "must be true or false")
	}
}
