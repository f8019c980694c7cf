package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chucky-1/grocery/internal/model"
)

func newTestInventory(t *testing.T) (*JSONInventory, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grocery_data.json")
	return NewInventory(NewFiles(), path), path
}

func mustItem(t *testing.T, p model.ItemParams) *model.Item {
	t.Helper()
	item, err := model.NewItem(p)
	require.NoError(t, err)
	return item
}

func TestJSONInventory_LoadAbsent(t *testing.T) {
	inv, _ := newTestInventory(t)
	_, err := inv.Load(context.Background())
	require.ErrorIs(t, err, ErrNotExist)
}

func TestJSONInventory_SaveLoad(t *testing.T) {
	ctx := context.Background()
	inv, path := newTestInventory(t)

	snapshot := &model.Snapshot{
		Items: []*model.Item{
			mustItem(t, model.ItemParams{Name: "Milk", Price: 3.5, Category: "Dairy", Unit: "liter", Quantity: 2}),
			mustItem(t, model.ItemParams{Name: "Bread", Price: 2, Category: "Bakery", Unit: "piece"}),
		},
		Budgets: model.Budgets{model.TotalBudget: 15, "Dairy": 10, "Bakery": 5},
		History: []model.Trip{{
			Date:      model.NewTimestamp(time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)),
			Items:     []model.TripItem{{Name: "Milk", Quantity: 2, Unit: "liter", Price: 3.5}},
			TotalCost: 7,
		}},
	}
	require.NoError(t, inv.Save(ctx, snapshot))

	loaded, err := inv.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, snapshot.Items, loaded.Items)
	require.Equal(t, snapshot.Budgets, loaded.Budgets)
	require.Len(t, loaded.History, 1)
	require.True(t, snapshot.History[0].Date.Equal(loaded.History[0].Date.Time))
	require.Equal(t, snapshot.History[0].Items, loaded.History[0].Items)

	// a second save replaces the document instead of appending to it
	snapshot.Items = snapshot.Items[:1]
	require.NoError(t, inv.Save(ctx, snapshot))
	loaded, err = inv.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestJSONInventory_LoadPolicies(t *testing.T) {
	testTable := []struct {
		name     string
		document string
		check    func(t *testing.T, snapshot *model.Snapshot, err error)
	}{
		{
			name:     "array at top level",
			document: `[{"name":"Milk"}]`,
			check: func(t *testing.T, _ *model.Snapshot, err error) {
				require.ErrorIs(t, err, ErrMalformed)
			},
		},
		{
			name:     "broken json",
			document: `{"items": [`,
			check: func(t *testing.T, _ *model.Snapshot, err error) {
				require.ErrorIs(t, err, ErrMalformed)
			},
		},
		{
			name:     "null document",
			document: `null`,
			check: func(t *testing.T, _ *model.Snapshot, err error) {
				require.ErrorIs(t, err, ErrMalformed)
			},
		},
		{
			name:     "item missing a field",
			document: `{"items":[{"name":"Milk","price":3.5,"category":"Dairy","quantity":2}]}`,
			check: func(t *testing.T, _ *model.Snapshot, err error) {
				require.ErrorIs(t, err, model.ErrMissingField)
				require.NotErrorIs(t, err, ErrMalformed)
			},
		},
		{
			name:     "null item",
			document: `{"items":[null]}`,
			check: func(t *testing.T, _ *model.Snapshot, err error) {
				require.ErrorIs(t, err, model.ErrMissingField)
			},
		},
		{
			name:     "empty object gets defaults for every key",
			document: `{}`,
			check: func(t *testing.T, snapshot *model.Snapshot, err error) {
				require.NoError(t, err)
				require.Empty(t, snapshot.Items)
				require.Equal(t, model.Budgets{model.TotalBudget: 0}, snapshot.Budgets)
				require.Empty(t, snapshot.History)
			},
		},
		{
			name:     "budgets without total",
			document: `{"items":[],"budgets":{"Dairy":4}}`,
			check: func(t *testing.T, snapshot *model.Snapshot, err error) {
				require.NoError(t, err)
				require.Equal(t, model.Budgets{model.TotalBudget: 0, "Dairy": 4}, snapshot.Budgets)
			},
		},
		{
			name:     "item without id keeps its attributes",
			document: `{"items":[{"name":"Rice","price":10,"category":"Grains","unit":"kg","quantity":0}]}`,
			check: func(t *testing.T, snapshot *model.Snapshot, err error) {
				require.NoError(t, err)
				require.Len(t, snapshot.Items, 1)
				require.Equal(t, "Rice", snapshot.Items[0].Name())
				require.NotEmpty(t, snapshot.Items[0].ID())
			},
		},
		{
			name:     "malformed history",
			document: `{"items":[],"history":{"date":"x"}}`,
			check: func(t *testing.T, _ *model.Snapshot, err error) {
				require.ErrorIs(t, err, ErrMalformed)
			},
		},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			inv, path := newTestInventory(t)
			require.NoError(t, os.WriteFile(path, []byte(testCase.document), 0644))
			snapshot, err := inv.Load(context.Background())
			testCase.check(t, snapshot, err)
		})
	}
}

func TestJSONInventory_DocumentLayout(t *testing.T) {
	ctx := context.Background()
	inv, path := newTestInventory(t)
	require.NoError(t, inv.Save(ctx, &model.Snapshot{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"items":[],"budgets":{"Total":0},"history":[]}`, string(data))
}
