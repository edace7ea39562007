package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maxviazov/football-sim-service/internal/repository"
)

const (
	DefaultTeamRating  = 50
	DefaultSkillRating = 10

	maxNameLength = 50
	minSeason     = 1
	maxSeason     = 9999
	maxWeek       = 60
)

// validate reports fields by their JSON names so messages match request bodies.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// structErrors runs tag validation on v and converts failures to FieldErrors under prefix.
func structErrors(prefix string, v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: prefix, Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if prefix != "" {
			field = prefix + "." + field
		}
		out = append(out, FieldError{Field: field, Message: ruleMessage(fe)})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func normalizePage(p repository.Page) repository.Page {
	return p.Sanitize()
}

func checkID(field string, id int64) []FieldError {
	if id <= 0 {
		return []FieldError{{Field: field, Message: "must be > 0"}}
	}
	return nil
}

func checkName(field, v string, required bool) []FieldError {
	switch n := len([]rune(v)); {
	case n == 0 && required:
		return []FieldError{{Field: field, Message: "must not be empty"}}
	case n > maxNameLength:
		return []FieldError{{Field: field, Message: fmt.Sprintf("length must be <= %d", maxNameLength)}}
	}
	return nil
}

// IsValidSeason reports whether season is a plausible season number.
func IsValidSeason(season int) bool {
	return season >= minSeason && season <= maxSeason
}

func checkSeasonFilter(season *int) []FieldError {
	if season != nil && !IsValidSeason(*season) {
		return []FieldError{{Field: "season", Message: fmt.Sprintf("must be between %d and %d", minSeason, maxSeason)}}
	}
	return nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
