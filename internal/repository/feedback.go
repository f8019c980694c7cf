package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chucky-1/grocery/internal/model"
)

//go:generate mockery --name=Feedback

// Feedback loads and saves the feedback list. It is stored apart from the inventory.
type Feedback interface {
	Load(ctx context.Context) ([]model.Feedback, error)
	Save(ctx context.Context, feedbacks []model.Feedback) error
}

type JSONFeedback struct {
	docs Documents
	name string
}

func NewFeedback(docs Documents, name string) *JSONFeedback {
	return &JSONFeedback{
		docs: docs,
		name: name,
	}
}

func (j *JSONFeedback) Load(ctx context.Context) ([]model.Feedback, error) {
	data, err := j.docs.Read(ctx, j.name)
	if err != nil {
		return nil, err
	}
	var feedbacks []model.Feedback
	if err = json.Unmarshal(data, &feedbacks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if feedbacks == nil {
		return nil, fmt.Errorf("%w: top level is not a list", ErrMalformed)
	}
	return feedbacks, nil
}

func (j *JSONFeedback) Save(ctx context.Context, feedbacks []model.Feedback) error {
	if feedbacks == nil {
		feedbacks = []model.Feedback{}
	}
	data, err := json.MarshalIndent(feedbacks, "", "    ")
	if err != nil {
		return fmt.Errorf("repository.JSONFeedback, encode feedbacks: %w", err)
	}
	return j.docs.Write(ctx, j.name, data)
}
