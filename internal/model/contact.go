package model

import (
	"regexp"
	"strings"
)

// ValidationError reports a request body that violates a field constraint.
// It is always the caller's fault and maps to a 422 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// Contact is a marketing inquiry submitted through the site contact form.
// ID and CreatedAt are service-generated; the record is never updated or
// deleted after creation.
type Contact struct {
	ID           string  `json:"id" dynamodbav:"id"`
	Name         string  `json:"name" dynamodbav:"name"`
	Email        string  `json:"email" dynamodbav:"email"`
	Company      *string `json:"company" dynamodbav:"company"`
	Phone        *string `json:"phone" dynamodbav:"phone"`
	Message      *string `json:"message" dynamodbav:"message"`
	PlanInterest *string `json:"plan_interest" dynamodbav:"plan_interest"`
	CreatedAt    string  `json:"created_at" dynamodbav:"created_at"`
}

// ContactInput is the caller-supplied portion of a contact submission.
type ContactInput struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Company      *string `json:"company"`
	Phone        *string `json:"phone"`
	Message      *string `json:"message"`
	PlanInterest *string `json:"plan_interest"`
}

// Validate checks the required fields. Optional fields are accepted as-is;
// absent means "not provided" and serializes as null.
func (in ContactInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.Email) == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if !ValidEmail(in.Email) {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	return nil
}
