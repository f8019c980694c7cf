package service

import (
	"github.com/shopspring/decimal"

	"github.com/chucky-1/grocery/internal/model"
)

// spend sums price * quantity over in-stock items accepted by keep.
func spend(items []*model.Item, keep func(*model.Item) bool) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if !item.InStock() || !keep(item) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(item.Price()).Mul(decimal.NewFromFloat(item.Quantity())))
	}
	return total
}

// withinLimit treats a zero limit as "no limit".
func withinLimit(spent decimal.Decimal, limit float64) bool {
	return limit == 0 || spent.LessThanOrEqual(decimal.NewFromFloat(limit))
}

func all(*model.Item) bool { return true }

func inCategory(category string) func(*model.Item) bool {
	return func(item *model.Item) bool { return item.Category() == category }
}

// TotalSpent is the value of everything in stock.
func (g *Grocery) TotalSpent() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return spend(g.items, all).InexactFloat64()
}

// CategorySpent is the value of everything in stock in one category.
func (g *Grocery) CategorySpent(category string) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return spend(g.items, inCategory(category)).InexactFloat64()
}

// CheckBudget reports whether the total spend fits the Total budget.
func (g *Grocery) CheckBudget() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return withinLimit(spend(g.items, all), g.budgets.Limit(model.TotalBudget))
}

// CheckCategoryBudget reports whether the spend of category fits its budget.
func (g *Grocery) CheckCategoryBudget(category string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return withinLimit(spend(g.items, inCategory(category)), g.budgets.Limit(category))
}

// CategorySummary maps each category with at least one in-stock item to its spend.
func (g *Grocery) CategorySummary() map[string]float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return categorySummary(g.items)
}

// Overview is spend and budget state read under one lock. Within holds the budget
// check for every key of Categories.
type Overview struct {
	Total        float64
	WithinBudget bool
	Budgets      model.Budgets
	Categories   map[string]float64
	Within       map[string]bool
	OutOfStock   []*model.Item
}

// Overview returns a consistent view of spend, budgets and the shopping list.
func (g *Grocery) Overview() Overview {
	g.mu.Lock()
	defer g.mu.Unlock()

	total := spend(g.items, all)
	categories := categorySummary(g.items)
	within := make(map[string]bool, len(categories))
	for category := range categories {
		within[category] = withinLimit(spend(g.items, inCategory(category)), g.budgets.Limit(category))
	}
	return Overview{
		Total:        total.InexactFloat64(),
		WithinBudget: withinLimit(total, g.budgets.Limit(model.TotalBudget)),
		Budgets:      g.budgets.Clone(),
		Categories:   categories,
		Within:       within,
		OutOfStock:   g.outOfStock(),
	}
}

func categorySummary(items []*model.Item) map[string]float64 {
	sums := make(map[string]decimal.Decimal)
	for _, item := range items {
		if !item.InStock() {
			continue
		}
		cost := decimal.NewFromFloat(item.Price()).Mul(decimal.NewFromFloat(item.Quantity()))
		sums[item.Category()] = sums[item.Category()].Add(cost)
	}

	summary := make(map[string]float64, len(sums))
	for category, sum := range sums {
		summary[category] = sum.InexactFloat64()
	}
	return summary
}
