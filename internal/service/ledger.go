package service

import (
	"context"
	"strings"

	"github.com/chucky-1/grocery/internal/model"
)

// SaveShoppingTrip records what is currently in stock as a trip and persists.
// With nothing in stock no trip is recorded and recorded is false.
func (g *Grocery) SaveShoppingTrip(ctx context.Context) (recorded bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var bought []model.TripItem
	for _, item := range g.items {
		if item.InStock() {
			bought = append(bought, model.TripItem{
				Name:     item.Name(),
				Quantity: item.Quantity(),
				Unit:     item.Unit(),
				Price:    item.Price(),
			})
		}
	}
	if len(bought) == 0 {
		return false, nil
	}

	g.history = append(g.history, model.Trip{
		Date:      model.NewTimestamp(g.now()),
		Items:     bought,
		TotalCost: spend(g.items, all).InexactFloat64(),
	})
	if err = g.save(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// History returns the recorded trips, oldest first.
func (g *Grocery) History() []model.Trip {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]model.Trip, len(g.history))
	for i, trip := range g.history {
		trip.Items = append([]model.TripItem(nil), trip.Items...)
		out[i] = trip
	}
	return out
}

// AddFeedback appends a feedback entry stamped with the current time and persists
// the feedback list.
func (g *Grocery) AddFeedback(ctx context.Context, name, message string, rating int) error {
	feedback := model.Feedback{
		Name:    strings.TrimSpace(name),
		Message: strings.TrimSpace(message),
		Rating:  rating,
	}
	if err := feedback.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	feedback.Timestamp = model.NewTimestamp(g.now())
	g.feedbacks = append(g.feedbacks, feedback)
	return g.saveFeedback(ctx)
}

// Feedbacks returns the feedback entries, oldest first.
func (g *Grocery) Feedbacks() []model.Feedback {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]model.Feedback(nil), g.feedbacks...)
}
