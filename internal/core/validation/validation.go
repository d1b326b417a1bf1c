// Package validation checks group payloads before they reach the repository.
//
// The functions here are pure: they never touch storage and never apply
// defaults. Callers run ApplyDefaults once after a successful ValidateCreate.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/comunidades/groups-api/internal/core/domain"
	"github.com/comunidades/groups-api/internal/core/ports"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// validate is safe for concurrent use; it caches nothing per request.
var validate = validator.New()

var (
	nameRule       = fmt.Sprintf("min=%d,max=%d", domain.NameMinLength, domain.NameMaxLength)
	descRule       = fmt.Sprintf("max=%d", domain.DescriptionMaxLength)
	locationRule   = fmt.Sprintf("max=%d", domain.LocationMaxLength)
	maxMembersRule = fmt.Sprintf("min=%d,max=%d", domain.MinMembersLimit, domain.MaxMembersLimit)
	categoryRule   = "oneof=" + join(domain.Categories)
	visibilityRule = "oneof=" + join(domain.Visibilities)
	joinPolicyRule = "oneof=" + join(domain.JoinPolicies)
)

// ValidateCreate checks a create payload. name and category are required.
func ValidateCreate(in ports.GroupInput) (ports.GroupInput, error) {
	if err := decodeErrors(in); err != nil {
		return ports.GroupInput{}, err
	}
	if !in.Name.HasValue() {
		return ports.GroupInput{}, domain.NewValidationError("name", "name is required")
	}
	if !in.Category.HasValue() {
		return ports.GroupInput{}, domain.NewValidationError("category", "category is required")
	}
	return validateFields(in)
}

// ValidateUpdate checks only the fields present in a partial payload.
func ValidateUpdate(in ports.GroupInput) (ports.GroupInput, error) {
	if err := decodeErrors(in); err != nil {
		return ports.GroupInput{}, err
	}
	return validateFields(in)
}

// ApplyDefaults fills visibility, join_policy and max_members when the
// caller did not supply them.
func ApplyDefaults(in ports.GroupInput) ports.GroupInput {
	if !in.Visibility.HasValue() {
		in.Visibility = ports.Set(string(domain.VisibilityPublic))
	}
	if !in.JoinPolicy.HasValue() {
		in.JoinPolicy = ports.Set(string(domain.JoinPolicyOpen))
	}
	if !in.MaxMembers.HasValue() {
		in.MaxMembers = ports.Set(domain.MaxMembersLimit)
	}
	return in
}

// ValidatePagination resolves page and limit, rejecting non-positive values.
// Absent values fall back to the defaults; limit is capped at MaxLimit.
func ValidatePagination(page, limit ports.Field[int]) (int, int, error) {
	p, l := DefaultPage, DefaultLimit
	if page.Present {
		if page.Null || page.Value < 1 {
			return 0, 0, domain.NewValidationError("pagination", "invalid pagination: page must be a positive integer")
		}
		p = page.Value
	}
	if limit.Present {
		if limit.Null || limit.Value < 1 {
			return 0, 0, domain.NewValidationError("pagination", "invalid pagination: limit must be a positive integer")
		}
		l = limit.Value
	}
	if l > MaxLimit {
		l = MaxLimit
	}
	// page*limit must fit in an int for the skip and hasNext arithmetic.
	if p > math.MaxInt/l {
		return 0, 0, domain.NewValidationError("pagination", "invalid pagination: page is out of range")
	}
	return p, l, nil
}

// ValidateCategory checks an optional category filter.
func ValidateCategory(category string) error {
	if category == "" {
		return nil
	}
	return check("category", category, categoryRule)
}

// decodeErrors reports a body that was not a JSON object, then the first key
// whose value had the wrong JSON type.
func decodeErrors(in ports.GroupInput) error {
	if in.Malformed {
		return domain.NewValidationError("", "invalid payload")
	}
	fields := []struct {
		field    string
		mistyped bool
		want     string
	}{
		{"name", in.Name.Mistyped, "a string"},
		{"description", in.Description.Mistyped, "a string"},
		{"category", in.Category.Mistyped, "a string"},
		{"visibility", in.Visibility.Mistyped, "a string"},
		{"join_policy", in.JoinPolicy.Mistyped, "a string"},
		{"max_members", in.MaxMembers.Mistyped, "an integer"},
		{"location_city", in.LocationCity.Mistyped, "a string"},
		{"location_state", in.LocationState.Mistyped, "a string"},
	}
	for _, f := range fields {
		if f.mistyped {
			return domain.NewValidationError(f.field, f.field+" must be "+f.want)
		}
	}
	return nil
}

func validateFields(in ports.GroupInput) (ports.GroupInput, error) {
	rules := []struct {
		field    string
		nullable bool
		present  bool
		null     bool
		value    any
		rule     string
	}{
		{"name", false, in.Name.Present, in.Name.Null, in.Name.Value, nameRule},
		{"description", true, in.Description.Present, in.Description.Null, in.Description.Value, descRule},
		{"category", false, in.Category.Present, in.Category.Null, in.Category.Value, categoryRule},
		{"visibility", false, in.Visibility.Present, in.Visibility.Null, in.Visibility.Value, visibilityRule},
		{"join_policy", false, in.JoinPolicy.Present, in.JoinPolicy.Null, in.JoinPolicy.Value, joinPolicyRule},
		{"max_members", false, in.MaxMembers.Present, in.MaxMembers.Null, in.MaxMembers.Value, maxMembersRule},
		{"location_city", true, in.LocationCity.Present, in.LocationCity.Null, in.LocationCity.Value, locationRule},
		{"location_state", true, in.LocationState.Present, in.LocationState.Null, in.LocationState.Value, locationRule},
	}

	for _, r := range rules {
		if !r.present {
			continue
		}
		if r.null {
			if r.nullable {
				continue
			}
			return ports.GroupInput{}, domain.NewValidationError(r.field, r.field+" cannot be null")
		}
		if err := check(r.field, r.value, r.rule); err != nil {
			return ports.GroupInput{}, err
		}
	}
	return in, nil
}

func check(field string, value any, rule string) error {
	err := validate.Var(value, rule)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return domain.NewValidationError(field, fieldError(field, ve[0]))
	}
	return domain.NewValidationError(field, fmt.Sprintf("%s is invalid", field))
}

// fieldError converts a single FieldError into a message naming the field
// and the violated bound.
func fieldError(field string, fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), unit)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, " ")
}
