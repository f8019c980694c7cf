// Package service holds the grocery engine: the in-memory store with its persistence contract,
// inventory operations, the budget engine and the trip and feedback ledgers.
//
// Every mutating method persists the whole state before it returns. A failed persist is returned
// to the caller and is not retried.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chucky-1/grocery/internal/model"
	"github.com/chucky-1/grocery/internal/repository"
)

var ErrItemNotFound = errors.New("item not found")

// Grocery is the single owner of the inventory, budgets, trip history and feedback.
type Grocery struct {
	mu        sync.Mutex
	inventory repository.Inventory
	feedback  repository.Feedback
	now       func() time.Time

	items     []*model.Item
	budgets   model.Budgets
	history   []model.Trip
	feedbacks []model.Feedback
}

func NewGrocery(inventory repository.Inventory, feedback repository.Feedback) *Grocery {
	return &Grocery{
		inventory: inventory,
		feedback:  feedback,
		now:       time.Now,
		budgets:   model.NewBudgets(),
	}
}

// Load reads both documents. A missing or malformed inventory is replaced by the seed
// inventory, a missing or malformed feedback list by an empty one. An item record with a
// missing field, or a failure to read or write, is returned as is.
func (g *Grocery) Load(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.loadInventory(ctx); err != nil {
		return err
	}
	return g.loadFeedback(ctx)
}

func (g *Grocery) loadInventory(ctx context.Context) error {
	snapshot, err := g.inventory.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrNotExist):
		logrus.Info("no inventory saved yet, initializing default items")
		return g.initializeDefaults(ctx)
	case errors.Is(err, repository.ErrMalformed):
		logrus.Warnf("corrupted inventory detected, initializing default items: %v", err)
		return g.initializeDefaults(ctx)
	case err != nil:
		return fmt.Errorf("service.Grocery, load inventory: %w", err)
	}

	g.items = snapshot.Items
	g.budgets = snapshot.Budgets
	g.history = snapshot.History
	logrus.Infof("inventory loaded: %d items, %d trips", len(g.items), len(g.history))
	return nil
}

func (g *Grocery) loadFeedback(ctx context.Context) error {
	feedbacks, err := g.feedback.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrNotExist):
		g.feedbacks = nil
		return nil
	case errors.Is(err, repository.ErrMalformed):
		logrus.Warnf("corrupted feedback list detected, starting with an empty one: %v", err)
		g.feedbacks = nil
		return nil
	case err != nil:
		return fmt.Errorf("service.Grocery, load feedback: %w", err)
	}
	g.feedbacks = feedbacks
	return nil
}

var defaultItems = []model.ItemParams{
	{Name: "Milk", Price: 3.5, Category: "Dairy", Unit: "liter", Quantity: 2},
	{Name: "Bread", Price: 2.0, Category: "Bakery", Unit: "piece", Quantity: 1},
	{Name: "Rice", Price: 10.0, Category: "Grains", Unit: "kg", Quantity: 0},
	{Name: "Tomato", Price: 1.5, Category: "Vegetables", Unit: "kg", Quantity: 3},
	{Name: "Chips", Price: 2.5, Category: "Snacks", Unit: "piece", Quantity: 0},
	{Name: "Juice", Price: 4.0, Category: "Beverages", Unit: "liter", Quantity: 1},
}

// initializeDefaults resets the inventory to the seed items and persists it.
func (g *Grocery) initializeDefaults(ctx context.Context) error {
	items := make([]*model.Item, 0, len(defaultItems))
	for _, p := range defaultItems {
		item, err := model.NewItem(p)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	g.items = items
	g.budgets = model.NewBudgets()
	g.history = nil
	return g.save(ctx)
}

// save writes the full snapshot. Callers hold g.mu.
func (g *Grocery) save(ctx context.Context) error {
	err := g.inventory.Save(ctx, &model.Snapshot{
		Items:   g.items,
		Budgets: g.budgets,
		History: g.history,
	})
	if err != nil {
		return fmt.Errorf("service.Grocery, save inventory: %w", err)
	}
	return nil
}

func (g *Grocery) saveFeedback(ctx context.Context) error {
	if err := g.feedback.Save(ctx, g.feedbacks); err != nil {
		return fmt.Errorf("service.Grocery, save feedback: %w", err)
	}
	return nil
}

func cloneItems(items []*model.Item) []*model.Item {
	out := make([]*model.Item, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
