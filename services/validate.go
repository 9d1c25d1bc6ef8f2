package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type movieCandidate struct {
	Title    string  `validate:"required,max=255"`
	Director string  `validate:"required"`
	Rating   float64 `validate:"min=1,max=10"`
	Comment  string  `validate:"max=1000"`
}

// ValidateMovieInput checks a candidate record against the field rules and
// returns nil when valid. The rating arrives as the raw form string because
// "must parse as a number" is itself one of the rules. All failing fields are
// reported, not just the first.
func ValidateMovieInput(title, director, rating, comment string) *ValidationError {
	fields := map[string]string{}

	candidate := movieCandidate{
		Title:    strings.TrimSpace(title),
		Director: strings.TrimSpace(director),
		Comment:  comment,
	}

	parsed, err := strconv.ParseFloat(strings.TrimSpace(rating), 64)
	if err != nil {
		fields["rating"] = "Rating must be a number"
		// Neutral value so the range tags stay quiet; the parse error wins.
		candidate.Rating = 5
	} else {
		candidate.Rating = parsed
	}

	if err := validate.Struct(candidate); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				field, msg := describeFieldError(fe)
				if _, taken := fields[field]; !taken {
					fields[field] = msg
				}
			}
		} else {
			fields["title"] = "Invalid input"
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func describeFieldError(fe validator.FieldError) (field, message string) {
	switch fe.StructField() {
	case "Title":
		if fe.Tag() == "max" {
			return "title", "Title is too long"
		}
		return "title", "Title is required"
	case "Director":
		return "director", "Director is required"
	case "Rating":
		return "rating", "Rating must be between 1 and 10"
	case "Comment":
		return "comment", "Comment is too long"
	}
	return strings.ToLower(fe.StructField()), "Invalid value"
}
