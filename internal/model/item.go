package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrInvalidItem  = errors.New("invalid item")
	ErrMissingField = errors.New("item record is missing a required field")
)

var validate = validator.New()

// ItemParams describes a product before it becomes an Item.
// ID is optional: an empty ID gets a fresh UUID.
type ItemParams struct {
	ID       string
	Name     string  `validate:"required"`
	Price    float64 `validate:"gte=0"`
	Category string
	Unit     string
	Quantity float64 `validate:"gte=0"`
}

// Item is one tracked grocery product. Only the quantity changes after construction,
// and only through IncreaseQuantity and DecreaseQuantity.
type Item struct {
	id       string
	name     string
	price    float64
	category string
	unit     string
	quantity float64
}

func NewItem(p ItemParams) (*Item, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	if !ValidAmount(p.Price) || !ValidAmount(p.Quantity) {
		return nil, fmt.Errorf("%w: price and quantity must be finite", ErrInvalidItem)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return &Item{
		id:       p.ID,
		name:     p.Name,
		price:    p.Price,
		category: p.Category,
		unit:     p.Unit,
		quantity: p.Quantity,
	}, nil
}

func (i *Item) ID() string        { return i.id }
func (i *Item) Name() string      { return i.name }
func (i *Item) Price() float64    { return i.price }
func (i *Item) Category() string  { return i.category }
func (i *Item) Unit() string      { return i.unit }
func (i *Item) Quantity() float64 { return i.quantity }

// Clone returns a detached copy, so callers can read an item without touching the stored one.
func (i *Item) Clone() *Item {
	c := *i
	return &c
}

// InStock reports whether the item has a positive quantity on hand.
func (i *Item) InStock() bool { return i.quantity > 0 }

// Cost is price times quantity on hand.
func (i *Item) Cost() float64 { return i.price * i.quantity }

// ValidAmount reports whether v is a finite number not below zero.
func ValidAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// IncreaseQuantity adds amount to the quantity. Negative or non-finite amounts are ignored.
func (i *Item) IncreaseQuantity(amount float64) {
	if !ValidAmount(amount) {
		return
	}
	i.quantity += amount
}

// DecreaseQuantity subtracts amount when enough stock is on hand and reports whether it did.
// An underflow leaves the quantity untouched.
func (i *Item) DecreaseQuantity(amount float64) bool {
	if !ValidAmount(amount) || i.quantity < amount {
		return false
	}
	i.quantity -= amount
	return true
}

// String renders the item the way the item list shows it.
func (i *Item) String() string {
	return fmt.Sprintf("%s: $%.2f/%s, Quantity: %s %s, Category: %s",
		i.name, i.price, i.unit, FormatQuantity(i.quantity), i.unit, i.category)
}

// FormatQuantity prints a quantity without trailing zeros.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

type itemRecord struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
}

func (i *Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemRecord{
		ID:       i.id,
		Name:     i.name,
		Price:    i.price,
		Category: i.category,
		Unit:     i.unit,
		Quantity: i.quantity,
	})
}

// UnmarshalJSON rebuilds an item from its stored record. All five attributes are required;
// the id is optional and regenerated when absent.
func (i *Item) UnmarshalJSON(data []byte) error {
	var rec struct {
		ID       *string  `json:"id"`
		Name     *string  `json:"name"`
		Price    *float64 `json:"price"`
		Category *string  `json:"category"`
		Unit     *string  `json:"unit"`
		Quantity *float64 `json:"quantity"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}

	switch {
	case rec.Name == nil:
		return fmt.Errorf("%w: name", ErrMissingField)
	case rec.Price == nil:
		return fmt.Errorf("%w: price", ErrMissingField)
	case rec.Category == nil:
		return fmt.Errorf("%w: category", ErrMissingField)
	case rec.Unit == nil:
		return fmt.Errorf("%w: unit", ErrMissingField)
	case rec.Quantity == nil:
		return fmt.Errorf("%w: quantity", ErrMissingField)
	}

	p := ItemParams{
		Name:     *rec.Name,
		Price:    *rec.Price,
		Category: *rec.Category,
		Unit:     *rec.Unit,
		Quantity: *rec.Quantity,
	}
	if rec.ID != nil {
		p.ID = *rec.ID
	}
	item, err := NewItem(p)
	if err != nil {
		return err
	}
	*i = *item
	return nil
}
