package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// TotalBudget is the reserved key for the overall budget.
const TotalBudget = "Total"

var (
	ErrNegativeBudget = errors.New("budget must not be negative")
	ErrEmptyCategory  = errors.New("empty category")
	ErrInvalidBudget  = errors.New("budget must be a finite number")
)

// Budgets maps a category to its spending limit. A limit of 0 means no limit is set.
type Budgets map[string]float64

func NewBudgets() Budgets {
	return Budgets{TotalBudget: 0}
}

// Set writes the limit for category. Setting any category other than Total
// recomputes Total as the sum of the category limits.
func (b Budgets) Set(category string, amount float64) error {
	if strings.TrimSpace(category) == "" {
		return ErrEmptyCategory
	}
	if amount < 0 {
		return fmt.Errorf("%w: %s %.2f", ErrNegativeBudget, category, amount)
	}
	if !ValidAmount(amount) {
		return fmt.Errorf("%w: %s %v", ErrInvalidBudget, category, amount)
	}
	b[category] = amount
	if category != TotalBudget {
		var total float64
		for k, v := range b {
			if k != TotalBudget {
				total += v
			}
		}
		b[TotalBudget] = total
	}
	return nil
}

// Limit returns the limit for category, 0 when none is configured.
func (b Budgets) Limit(category string) float64 {
	return b[category]
}

func (b Budgets) Clone() Budgets {
	c := make(Budgets, len(b))
	for k, v := range b {
		c[k] = v
	}
	return c
}

// Categories returns the configured keys in alphabetical order, Total first.
func (b Budgets) Categories() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		if k != TotalBudget {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := b[TotalBudget]; ok {
		keys = append([]string{TotalBudget}, keys...)
	}
	return keys
}
