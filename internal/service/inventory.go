package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/chucky-1/grocery/internal/model"
)

// AddItem appends item to the inventory and persists.
func (g *Grocery) AddItem(ctx context.Context, item *model.Item) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.items = append(g.items, item.Clone())
	return g.save(ctx)
}

// DeleteItem removes the item with the given id and persists. An unknown id removes nothing.
func (g *Grocery) DeleteItem(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	kept := g.items[:0]
	for _, item := range g.items {
		if item.ID() != id {
			kept = append(kept, item)
		}
	}
	for i := len(kept); i < len(g.items); i++ {
		g.items[i] = nil
	}
	g.items = kept
	return g.save(ctx)
}

// IncreaseQuantity adds amount to the item's stock and persists.
func (g *Grocery) IncreaseQuantity(ctx context.Context, id string, amount float64) (*model.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	item := g.find(id)
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	item.IncreaseQuantity(amount)
	if err := g.save(ctx); err != nil {
		return nil, err
	}
	return item.Clone(), nil
}

// DecreaseQuantity takes amount out of the item's stock. When there is not enough stock
// nothing changes and applied is false; only an applied change is persisted.
func (g *Grocery) DecreaseQuantity(ctx context.Context, id string, amount float64) (item *model.Item, applied bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	stored := g.find(id)
	if stored == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if !stored.DecreaseQuantity(amount) {
		return stored.Clone(), false, nil
	}
	if err = g.save(ctx); err != nil {
		return nil, true, err
	}
	return stored.Clone(), true, nil
}

// Budgets returns a copy of the budget table.
func (g *Grocery) Budgets() model.Budgets {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.budgets.Clone()
}

// SetBudget writes a category limit and persists. Any category other than Total
// recomputes the Total budget.
func (g *Grocery) SetBudget(ctx context.Context, category string, amount float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.budgets.Set(category, amount); err != nil {
		return err
	}
	return g.save(ctx)
}

// Resolve finds an item by id, falling back to a case-insensitive name match.
func (g *Grocery) Resolve(ref string) (*model.Item, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ref = strings.TrimSpace(ref)
	if item := g.find(ref); item != nil {
		return item.Clone(), true
	}
	for _, item := range g.items {
		if strings.EqualFold(item.Name(), ref) {
			return item.Clone(), true
		}
	}
	return nil, false
}

// Items returns copies of all items in insertion order.
func (g *Grocery) Items() []*model.Item {
	g.mu.Lock()
	defer g.mu.Unlock()
	return cloneItems(g.items)
}

// Search matches query against item names and categories, ignoring case.
// An empty query returns every item.
func (g *Grocery) Search(query string) []*model.Item {
	g.mu.Lock()
	defer g.mu.Unlock()

	if query == "" {
		return cloneItems(g.items)
	}
	q := strings.ToLower(query)
	var found []*model.Item
	for _, item := range g.items {
		if strings.Contains(strings.ToLower(item.Name()), q) || strings.Contains(strings.ToLower(item.Category()), q) {
			found = append(found, item.Clone())
		}
	}
	return found
}

// OutOfStockItems is the shopping list: every item with nothing on hand.
func (g *Grocery) OutOfStockItems() []*model.Item {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outOfStock()
}

func (g *Grocery) outOfStock() []*model.Item {
	var out []*model.Item
	for _, item := range g.items {
		if item.Quantity() == 0 {
			out = append(out, item.Clone())
		}
	}
	return out
}

func (g *Grocery) find(id string) *model.Item {
	for _, item := range g.items {
		if item.ID() == id {
			return item
		}
	}
	return nil
}
