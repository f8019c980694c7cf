package consumer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chucky-1/grocery/internal/model"
	"github.com/chucky-1/grocery/internal/repository"
	"github.com/chucky-1/grocery/internal/repository/mocks"
	"github.com/chucky-1/grocery/internal/service"
)

const testChatID = int64(42)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func (f *fakeSender) last(t *testing.T) tgbotapi.Chattable {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func (f *fakeSender) lastText(t *testing.T) string {
	t.Helper()
	msg, ok := f.last(t).(tgbotapi.MessageConfig)
	require.True(t, ok, "last sent is not a text message")
	return msg.Text
}

func newTestBot(t *testing.T) (*Bot, *fakeSender, *service.Grocery, service.Chats) {
	t.Helper()
	dir := t.TempDir()
	docs := repository.NewFiles()
	grocery := service.NewGrocery(
		repository.NewInventory(docs, filepath.Join(dir, "grocery_data.json")),
		repository.NewFeedback(docs, filepath.Join(dir, "feedback_data.json")),
	)
	require.NoError(t, grocery.Load(context.Background()))

	chats := service.NewChats(repository.NewChatsLocalStorage())
	sender := &fakeSender{}
	return NewBot(sender, nil, grocery, chats), sender, grocery, chats
}

func command(text string) *tgbotapi.Message {
	cmd := strings.SplitN(text, " ", 2)[0]
	return &tgbotapi.Message{
		MessageID: 7,
		Text:      text,
		Chat:      &tgbotapi.Chat{ID: testChatID},
		From:      &tgbotapi.User{UserName: "ana"},
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}
}

func run(t *testing.T, b *Bot, sender *fakeSender, text string) string {
	t.Helper()
	require.NoError(t, b.handle(context.Background(), command(text)))
	return sender.lastText(t)
}

func TestBot_Inventory(t *testing.T) {
	b, sender, grocery, _ := newTestBot(t)

	require.Equal(t, "Added Cheese!", run(t, b, sender, "/add Cheese, 6.25, Dairy, kg, 2"))
	cheese, ok := grocery.Resolve("cheese")
	require.True(t, ok)
	require.Equal(t, 2.0, cheese.Quantity())

	require.Equal(t, "Price must be a number greater than 0.", run(t, b, sender, "/add Water, 0, Beverages, liter"))
	require.Len(t, grocery.Items(), 7)

	require.Equal(t, "Cheese: $6.25/kg, Quantity: 2.5 kg, Category: Dairy", run(t, b, sender, "/inc Cheese 0.5"))
	require.Equal(t, "Only 0 piece of Chips left, nothing changed.", run(t, b, sender, "/dec chips"))
	require.Equal(t, "Milk: $3.50/liter, Quantity: 0 liter, Category: Dairy\nWarning: Milk is now out of stock!",
		run(t, b, sender, "/dec Milk 2"))
	require.Equal(t, `No item "Butter" found.`, run(t, b, sender, "/inc Butter"))

	require.Equal(t, "Deleted Bread.", run(t, b, sender, "/del bread"))
	_, ok = grocery.Resolve("Bread")
	require.False(t, ok)

	reply := run(t, b, sender, "/items dairy")
	require.Contains(t, reply, "Milk: $3.50/liter")
	require.Contains(t, reply, "id: "+cheese.ID())
	require.NotContains(t, reply, "Chips")
}

func TestBot_BudgetAndCost(t *testing.T) {
	b, sender, grocery, _ := newTestBot(t)

	require.Equal(t, "Budget set for Dairy: $5.00", run(t, b, sender, "/budget Dairy 5"))
	require.Equal(t, 5.0, grocery.Budgets()["Total"])
	require.Equal(t, "budget must not be negative: Dairy -1.00", run(t, b, sender, "/budget Dairy -1"))

	reply := run(t, b, sender, "/cost")
	require.True(t, strings.HasPrefix(reply, "Total Cost: $17.50\nWarning: Total expenses ($17.50) exceed total budget ($5.00)!"), reply)
	require.Contains(t, reply, "Dairy - $7.00 (over budget)")
	require.Contains(t, reply, "Vegetables - $4.50 (within budget)")
	require.Contains(t, reply, "Warning: Dairy expenses ($7.00) exceed budget ($5.00)!")
}

func TestBot_ShoppingListExports(t *testing.T) {
	b, sender, _, _ := newTestBot(t)

	reply := run(t, b, sender, "/list")
	require.Equal(t, "Shopping list:\n- Rice (Grains) - $10.00/kg\n- Chips (Snacks) - $2.50/piece", reply)

	for name, cmd := range map[string]string{"shopping_list.csv": "/csv", "shopping_list.pdf": "/pdf"} {
		require.NoError(t, b.handle(context.Background(), command(cmd)))
		doc, ok := sender.last(t).(tgbotapi.DocumentConfig)
		require.True(t, ok)
		file, ok := doc.File.(tgbotapi.FileBytes)
		require.True(t, ok)
		require.Equal(t, name, file.Name)
		require.NotEmpty(t, file.Bytes)
		require.Equal(t, testChatID, doc.ChatID)
	}
}

func TestBot_TripsAndFeedback(t *testing.T) {
	b, sender, grocery, _ := newTestBot(t)

	require.Equal(t, "No shopping history available.", run(t, b, sender, "/history"))
	require.Equal(t, "Shopping trip saved!", run(t, b, sender, "/trip"))
	reply := run(t, b, sender, "/history")
	require.Contains(t, reply, "Total Cost: $17.50")
	require.Contains(t, reply, "- Milk: 2 liter at $3.50")

	require.Equal(t, "Usage: /feedback <rating 1-5> <message>", run(t, b, sender, "/feedback 5"))
	require.Equal(t, "Please enter a feedback message and a rating from 1 to 5.", run(t, b, sender, "/feedback 9 too good"))
	require.Equal(t, "Thank you for your feedback!", run(t, b, sender, "/feedback 5 works well"))
	require.Len(t, grocery.Feedbacks(), 1)

	reply = run(t, b, sender, "/feedbacks")
	require.Contains(t, reply, "Name: ana\nFeedback: works well\nRating: 5 Stars")
}

func TestBot_Subscriptions(t *testing.T) {
	b, sender, _, chats := newTestBot(t)
	ctx := context.Background()

	require.Equal(t, "You will receive the shopping list report.", run(t, b, sender, "/subscribe"))
	require.True(t, chats.Subscribed(ctx, testChatID))
	require.Equal(t, "You are already subscribed to the shopping list report.", run(t, b, sender, "/subscribe"))

	run(t, b, sender, "/unsubscribe")
	require.False(t, chats.Subscribed(ctx, testChatID))
}

func TestBot_HelpForUnknownInput(t *testing.T) {
	b, sender, _, _ := newTestBot(t)

	require.Equal(t, helpText, run(t, b, sender, "/start"))
	require.Equal(t, helpText, run(t, b, sender, "/whatever"))

	plain := &tgbotapi.Message{MessageID: 8, Text: "hello", Chat: &tgbotapi.Chat{ID: testChatID}}
	require.NoError(t, b.handle(context.Background(), plain))
	require.Equal(t, helpText, sender.lastText(t))
}

func TestBot_Consume(t *testing.T) {
	b, sender, _, _ := newTestBot(t)
	updates := make(chan tgbotapi.Update)
	b.updatesChan = updates

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Consume(ctx)
		close(done)
	}()

	updates <- tgbotapi.Update{}
	updates <- tgbotapi.Update{Message: command("/help")}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
	require.Equal(t, helpText, sender.lastText(t))
}

func TestParseAdd(t *testing.T) {
	type testCase struct {
		name     string
		args     string
		quantity float64
		err      string
	}
	testTable := []testCase{
		{name: "without quantity", args: "Olive oil, 8.5, Other, liter"},
		{name: "with quantity", args: " Olive oil ,8.5,Other , liter, 1.5", quantity: 1.5},
		{name: "too few fields", args: "Olive oil, 8.5", err: "Usage: /add name, price, category, unit[, quantity]"},
		{name: "zero price", args: "Olive oil, 0, Other, liter", err: "Price must be a number greater than 0."},
		{name: "bad quantity", args: "Olive oil, 8.5, Other, liter, -1", err: "Quantity must be a number not less than 0."},
		{name: "empty name", args: " , 8.5, Other, liter", err: "Usage: /add name, price, category, unit[, quantity]"},
		{name: "infinite price", args: "Olive oil, Inf, Other, liter", err: "Price must be a number greater than 0."},
		{name: "NaN quantity", args: "Olive oil, 8.5, Other, liter, NaN", err: "Quantity must be a number not less than 0."},
	}

	for _, tc := range testTable {
		t.Run(tc.name, func(t *testing.T) {
			params, err := parseAdd(tc.args)
			if tc.err != "" {
				require.EqualError(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "Olive oil", params.Name)
			require.Equal(t, 8.5, params.Price)
			require.Equal(t, "Other", params.Category)
			require.Equal(t, "liter", params.Unit)
			require.Equal(t, tc.quantity, params.Quantity)
		})
	}
}

func TestParseAmount(t *testing.T) {
	type testCase struct {
		args   string
		ref    string
		amount float64
		err    bool
	}
	testTable := []testCase{
		{args: "Milk", ref: "Milk", amount: 1},
		{args: "Milk 0.5", ref: "Milk", amount: 0.5},
		{args: "Olive oil 2", ref: "Olive oil", amount: 2},
		{args: "7up", ref: "7up", amount: 1},
		{args: "Milk -1", err: true},
		{args: "Milk NaN", err: true},
		{args: "Milk inf", err: true},
		{args: "Milk -Inf", err: true},
		{args: "  ", err: true},
	}

	for _, tc := range testTable {
		t.Run(tc.args, func(t *testing.T) {
			ref, amount, err := parseAmount(tc.args)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.ref, ref)
			require.Equal(t, tc.amount, amount)
		})
	}
}

func TestParseBudgetAndFeedback(t *testing.T) {
	category, amount, err := parseBudget("Frozen food 12.5")
	require.NoError(t, err)
	require.Equal(t, "Frozen food", category)
	require.Equal(t, 12.5, amount)

	_, _, err = parseBudget("Dairy")
	require.Error(t, err)
	_, _, err = parseBudget("Dairy ten")
	require.Error(t, err)
	for _, args := range []string{"Dairy NaN", "Dairy inf", "Total +Inf"} {
		_, _, err = parseBudget(args)
		require.EqualError(t, err, "Budget amount must be a finite number.", args)
	}

	rating, message, err := parseFeedback("4 nice   and simple")
	require.NoError(t, err)
	require.Equal(t, 4, rating)
	require.Equal(t, "nice and simple", message)

	_, _, err = parseFeedback("five stars")
	require.Error(t, err)
}

func TestBot_NonFiniteAmountsRejected(t *testing.T) {
	b, sender, grocery, _ := newTestBot(t)

	require.Equal(t, "Amount must be a finite number.", run(t, b, sender, "/inc Milk NaN"))
	require.Equal(t, "Amount must be a finite number.", run(t, b, sender, "/dec Milk inf"))
	require.Equal(t, "Budget amount must be a finite number.", run(t, b, sender, "/budget Dairy inf"))

	milk, ok := grocery.Resolve("Milk")
	require.True(t, ok)
	require.Equal(t, 2.0, milk.Quantity())
	require.NotContains(t, grocery.Budgets(), "Dairy")

	// persistence keeps working afterwards
	require.Equal(t, "Added Cheese!", run(t, b, sender, "/add Cheese, 6.25, Dairy, kg"))
	require.Equal(t, "Budget set for Dairy: $5.00", run(t, b, sender, "/budget Dairy 5"))
}

func TestBot_FailureReplyWhenPersistFails(t *testing.T) {
	writeErr := errors.New("disk full")
	inv := mocks.NewInventory(t)
	inv.On("Load", mock.Anything).Return(&model.Snapshot{Budgets: model.NewBudgets()}, nil).Once()
	inv.On("Save", mock.Anything, mock.Anything).Return(writeErr)
	fb := mocks.NewFeedback(t)
	fb.On("Load", mock.Anything).Return([]model.Feedback{}, nil).Once()

	grocery := service.NewGrocery(inv, fb)
	require.NoError(t, grocery.Load(context.Background()))

	sender := &fakeSender{err: errors.New("telegram is down")}
	b := NewBot(sender, nil, grocery, service.NewChats(repository.NewChatsLocalStorage()))

	err := b.handle(context.Background(), command("/add Cheese, 6.25, Dairy, kg"))
	require.ErrorIs(t, err, writeErr)
	require.Equal(t, "Something went wrong, please try again later.", sender.lastText(t))
}
