package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chucky-1/grocery/internal/model"
)

//go:generate mockery --name=Inventory

// Inventory loads and saves the items, budgets and trip history as one document.
//
// Load returns ErrNotExist when nothing has been saved yet and ErrMalformed when the
// stored document can't be parsed. An item record missing a required field is reported
// as model.ErrMissingField.
type Inventory interface {
	Load(ctx context.Context) (*model.Snapshot, error)
	Save(ctx context.Context, snapshot *model.Snapshot) error
}

type JSONInventory struct {
	docs Documents
	name string
}

func NewInventory(docs Documents, name string) *JSONInventory {
	return &JSONInventory{
		docs: docs,
		name: name,
	}
}

func (j *JSONInventory) Load(ctx context.Context) (*model.Snapshot, error) {
	data, err := j.docs.Read(ctx, j.name)
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(data)
}

func (j *JSONInventory) Save(ctx context.Context, snapshot *model.Snapshot) error {
	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	return j.docs.Write(ctx, j.name, data)
}

func encodeSnapshot(snapshot *model.Snapshot) ([]byte, error) {
	doc := *snapshot
	if doc.Items == nil {
		doc.Items = []*model.Item{}
	}
	if doc.Budgets == nil {
		doc.Budgets = model.NewBudgets()
	}
	if doc.History == nil {
		doc.History = []model.Trip{}
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("repository.JSONInventory, encode snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (*model.Snapshot, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}

	snapshot := &model.Snapshot{
		Items:   []*model.Item{},
		Budgets: model.NewBudgets(),
		History: []model.Trip{},
	}

	if raw, ok := doc["items"]; ok && !isNull(raw) {
		var items []*model.Item
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("repository.JSONInventory, decode items: %w", err)
		}
		for i, item := range items {
			if item == nil {
				return nil, fmt.Errorf("repository.JSONInventory, item %d: %w", i, model.ErrMissingField)
			}
		}
		snapshot.Items = items
	}

	if raw, ok := doc["budgets"]; ok && !isNull(raw) {
		budgets := model.Budgets{}
		if err := json.Unmarshal(raw, &budgets); err != nil {
			return nil, fmt.Errorf("%w: budgets: %v", ErrMalformed, err)
		}
		if _, ok := budgets[model.TotalBudget]; !ok {
			budgets[model.TotalBudget] = 0
		}
		snapshot.Budgets = budgets
	}

	if raw, ok := doc["history"]; ok && !isNull(raw) {
		var history []model.Trip
		if err := json.Unmarshal(raw, &history); err != nil {
			return nil, fmt.Errorf("%w: history: %v", ErrMalformed, err)
		}
		snapshot.History = history
	}

	return snapshot, nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
