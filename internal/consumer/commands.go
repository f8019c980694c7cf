package consumer

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/chucky-1/grocery/internal/model"
	"github.com/chucky-1/grocery/internal/service"
)

// inputError is a problem with what the user typed; its message is sent back as the reply.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func invalidInput(format string, args ...any) error {
	return &inputError{msg: fmt.Sprintf(format, args...)}
}

func notFound(ref string) error {
	return invalidInput("No item %q found.", strings.TrimSpace(ref))
}

// parseNumber accepts finite decimal numbers only; ParseFloat alone also takes NaN and Inf.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseAdd reads "name, price, category, unit[, quantity]".
func parseAdd(args string) (model.ItemParams, error) {
	const usage = "Usage: /add name, price, category, unit[, quantity]"

	fields := strings.Split(args, ",")
	if len(fields) != 4 && len(fields) != 5 {
		return model.ItemParams{}, invalidInput(usage)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	price, ok := parseNumber(fields[1])
	if !ok || price <= 0 {
		return model.ItemParams{}, invalidInput("Price must be a number greater than 0.")
	}
	params := model.ItemParams{
		Name:     fields[0],
		Price:    price,
		Category: fields[2],
		Unit:     fields[3],
	}
	if len(fields) == 5 {
		quantity, ok := parseNumber(fields[4])
		if !ok || quantity < 0 {
			return model.ItemParams{}, invalidInput("Quantity must be a number not less than 0.")
		}
		params.Quantity = quantity
	}
	if params.Name == "" || params.Category == "" || params.Unit == "" {
		return model.ItemParams{}, invalidInput(usage)
	}
	return params, nil
}

// parseAmount reads "<item> [amount]". The item may contain spaces; amount defaults to 1.
func parseAmount(args string) (ref string, amount float64, err error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", 0, invalidInput("Tell me which item, for example: Milk 0.5")
	}
	amount = 1
	if len(fields) > 1 {
		last := fields[len(fields)-1]
		if _, parseErr := strconv.ParseFloat(last, 64); parseErr == nil {
			v, ok := parseNumber(last)
			if !ok {
				return "", 0, invalidInput("Amount must be a finite number.")
			}
			if v < 0 {
				return "", 0, invalidInput("Amount must not be negative.")
			}
			amount = v
			fields = fields[:len(fields)-1]
		}
	}
	return strings.Join(fields, " "), amount, nil
}

// parseBudget reads "<category> <amount>".
func parseBudget(args string) (category string, amount float64, err error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "", 0, invalidInput("Usage: /budget <category> <amount>")
	}
	amount, ok := parseNumber(fields[len(fields)-1])
	if !ok {
		return "", 0, invalidInput("Budget amount must be a finite number.")
	}
	return strings.Join(fields[:len(fields)-1], " "), amount, nil
}

// parseFeedback reads "<rating> <message>".
func parseFeedback(args string) (rating int, message string, err error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return 0, "", invalidInput("Usage: /feedback <rating 1-5> <message>")
	}
	rating, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", invalidInput("Rating must be a whole number from 1 to 5.")
	}
	return rating, strings.Join(fields[1:], " "), nil
}

func formatItems(items []*model.Item) string {
	if len(items) == 0 {
		return "No items found."
	}
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%s\nid: %s", item.String(), item.ID())
	}
	return sb.String()
}

func formatShoppingList(items []*model.Item) string {
	if len(items) == 0 {
		return "No items are out of stock."
	}
	var sb strings.Builder
	sb.WriteString("Shopping list:")
	for _, item := range items {
		fmt.Fprintf(&sb, "\n- %s (%s) - $%.2f/%s", item.Name(), item.Category(), item.Price(), item.Unit())
	}
	return sb.String()
}

func formatCost(overview service.Overview) string {
	total, budgets, summary, within := overview.Total, overview.Budgets, overview.Categories, overview.Within

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total Cost: $%.2f", total)
	if !overview.WithinBudget {
		fmt.Fprintf(&sb, "\nWarning: Total expenses ($%.2f) exceed total budget ($%.2f)!", total, budgets.Limit(model.TotalBudget))
	}
	if len(summary) == 0 {
		return sb.String()
	}

	categories := make([]string, 0, len(summary))
	for category := range summary {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	sb.WriteString("\n\nCategory-wise Breakdown:")
	for _, category := range categories {
		mark := "within budget"
		if !within[category] {
			mark = "over budget"
		}
		fmt.Fprintf(&sb, "\n%s - $%.2f (%s)", category, summary[category], mark)
	}
	for _, category := range categories {
		if !within[category] {
			fmt.Fprintf(&sb, "\nWarning: %s expenses ($%.2f) exceed budget ($%.2f)!",
				category, summary[category], budgets.Limit(category))
		}
	}
	return sb.String()
}

func formatHistory(trips []model.Trip) string {
	if len(trips) == 0 {
		return "No shopping history available."
	}
	var sb strings.Builder
	for i, trip := range trips {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Date: %s\nTotal Cost: $%.2f", trip.Date, trip.TotalCost)
		for _, item := range trip.Items {
			fmt.Fprintf(&sb, "\n- %s: %s %s at $%.2f", item.Name, model.FormatQuantity(item.Quantity), item.Unit, item.Price)
		}
	}
	return sb.String()
}

func formatFeedbacks(feedbacks []model.Feedback) string {
	if len(feedbacks) == 0 {
		return "No feedbacks submitted yet."
	}
	var sb strings.Builder
	for i, fb := range feedbacks {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		fmt.Fprintf(&sb, "Timestamp: %s\nName: %s\nFeedback: %s\nRating: %d Stars",
			fb.Timestamp, fb.Author(), fb.Message, fb.Rating)
	}
	return sb.String()
}
