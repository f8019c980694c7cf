package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidFeedback = errors.New("invalid feedback")

// Feedback is one message left by a user of the app
type Feedback struct {
	Timestamp Timestamp `json:"timestamp"`
	Name      string    `json:"name"`
	Message   string    `json:"message" validate:"required"`
	Rating    int       `json:"rating" validate:"min=1,max=5"`
}

func (f Feedback) Validate() error {
	f.Message = strings.TrimSpace(f.Message)
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFeedback, err)
	}
	return nil
}

// Author returns the submitter name, or Anonymous when none was given.
func (f Feedback) Author() string {
	if strings.TrimSpace(f.Name) == "" {
		return "Anonymous"
	}
	return f.Name
}
