package model

import "strings"

// Subscriber is a newsletter opt-in. Email is unique across all
// subscribers; the store enforces that invariant at write time.
type Subscriber struct {
	ID        string `json:"id" dynamodbav:"id"`
	Email     string `json:"email" dynamodbav:"email"`
	CreatedAt string `json:"created_at" dynamodbav:"created_at"`
}

// SubscriberInput is the caller-supplied portion of a subscription.
type SubscriberInput struct {
	Email string `json:"email"`
}

// Validate checks the email syntax.
func (in SubscriberInput) Validate() error {
	if strings.TrimSpace(in.Email) == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if !ValidEmail(in.Email) {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	return nil
}
