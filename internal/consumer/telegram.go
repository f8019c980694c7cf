// Package consumer
package consumer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/chucky-1/grocery/internal/export"
	"github.com/chucky-1/grocery/internal/model"
	"github.com/chucky-1/grocery/internal/service"
)

const (
	start       = "start"
	help        = "help"
	items       = "items"
	add         = "add"
	inc         = "inc"
	dec         = "dec"
	del         = "del"
	budget      = "budget"
	cost        = "cost"
	list        = "list"
	csvExport   = "csv"
	pdfExport   = "pdf"
	trip        = "trip"
	history     = "history"
	feedback    = "feedback"
	feedbacks   = "feedbacks"
	subscribe   = "subscribe"
	unsubscribe = "unsubscribe"
)

const requestTimeout = 10 * time.Second

const helpText = `Grocery tracker commands:
/items [query] - list items, optionally filtered by name or category
/add name, price, category, unit[, quantity] - add an item
/inc <item> [amount] - increase quantity (default 1)
/dec <item> [amount] - decrease quantity (default 1)
/del <item> - delete an item
/budget <category> <amount> - set a budget, Total for the overall one
/cost - spending and budget check
/list - shopping list (out-of-stock items)
/csv, /pdf - download the shopping list
/trip - save the current shopping trip
/history - past shopping trips
/feedback <rating 1-5> <message> - leave feedback
/feedbacks - submitted feedback
/subscribe, /unsubscribe - scheduled shopping-list report`

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot receives updates from the telegram server and answers grocery commands
type Bot struct {
	bot         sender
	updatesChan tgbotapi.UpdatesChannel
	grocery     *service.Grocery
	chats       service.Chats
}

func NewBot(bot sender, updatesChan tgbotapi.UpdatesChannel, grocery *service.Grocery, chats service.Chats) *Bot {
	return &Bot{
		bot:         bot,
		updatesChan: updatesChan,
		grocery:     grocery,
		chats:       chats,
	}
}

func (b *Bot) Consume(ctx context.Context) {
	logrus.Info("telegram bot started consuming")

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("bot consumer stopped: %v", ctx.Err())
			return

		case update, ok := <-b.updatesChan:
			if !ok {
				logrus.Info("bot consumer stopped: updates channel closed")
				return
			}
			if update.Message == nil {
				continue
			}
			newCtx, cancel := context.WithTimeout(ctx, requestTimeout)
			if err := b.handle(newCtx, update.Message); err != nil {
				logrus.Errorf("bot consumer, chat %d, %q: %v", update.Message.Chat.ID, update.Message.Text, err)
			}
			cancel()
		}
	}
}

func (b *Bot) handle(ctx context.Context, message *tgbotapi.Message) error {
	if !message.IsCommand() {
		logrus.Debugf("recieved message: %s", message.Text)
		return b.sendMessage(message, helpText)
	}

	args := message.CommandArguments()
	logrus.Infof("command %s executed in chat %d", message.Command(), message.Chat.ID)

	var (
		text string
		err  error
	)
	switch message.Command() {
	case start, help:
		text = helpText
	case items:
		text = formatItems(b.grocery.Search(args))
	case add:
		text, err = b.addItem(ctx, args)
	case inc:
		text, err = b.increase(ctx, args)
	case dec:
		text, err = b.decrease(ctx, args)
	case del:
		text, err = b.deleteItem(ctx, args)
	case budget:
		text, err = b.setBudget(ctx, args)
	case cost:
		text = formatCost(b.grocery.Overview())
	case list:
		text = formatShoppingList(b.grocery.OutOfStockItems())
	case csvExport:
		return b.sendExport(message, "shopping_list.csv", export.WriteCSV)
	case pdfExport:
		return b.sendExport(message, "shopping_list.pdf", export.WritePDF)
	case trip:
		text, err = b.saveTrip(ctx)
	case history:
		text = formatHistory(b.grocery.History())
	case feedback:
		text, err = b.addFeedback(ctx, message, args)
	case feedbacks:
		text = formatFeedbacks(b.grocery.Feedbacks())
	case subscribe:
		text, err = b.subscribe(ctx, message)
	case unsubscribe:
		text, err = b.unsubscribe(ctx, message)
	default:
		logrus.Infof("unknown command: %s", message.Text)
		text = helpText
	}

	if err != nil {
		var userErr *inputError
		if !errors.As(err, &userErr) {
			if sendErr := b.sendMessage(message, "Something went wrong, please try again later."); sendErr != nil {
				logrus.Errorf("bot consumer, chat %d: %v", message.Chat.ID, sendErr)
			}
			return err
		}
		text = userErr.Error()
	}
	return b.sendMessage(message, text)
}

func (b *Bot) addItem(ctx context.Context, args string) (string, error) {
	params, err := parseAdd(args)
	if err != nil {
		return "", err
	}
	item, err := model.NewItem(params)
	if err != nil {
		return "", &inputError{msg: err.Error()}
	}
	if err = b.grocery.AddItem(ctx, item); err != nil {
		return "", err
	}
	return fmt.Sprintf("Added %s!", item.Name()), nil
}

func (b *Bot) increase(ctx context.Context, args string) (string, error) {
	ref, amount, err := parseAmount(args)
	if err != nil {
		return "", err
	}
	item, ok := b.grocery.Resolve(ref)
	if !ok {
		return "", notFound(ref)
	}
	item, err = b.grocery.IncreaseQuantity(ctx, item.ID(), amount)
	if err != nil {
		return "", err
	}
	return item.String(), nil
}

func (b *Bot) decrease(ctx context.Context, args string) (string, error) {
	ref, amount, err := parseAmount(args)
	if err != nil {
		return "", err
	}
	item, ok := b.grocery.Resolve(ref)
	if !ok {
		return "", notFound(ref)
	}
	item, applied, err := b.grocery.DecreaseQuantity(ctx, item.ID(), amount)
	if err != nil {
		return "", err
	}
	if !applied {
		return fmt.Sprintf("Only %s %s of %s left, nothing changed.",
			model.FormatQuantity(item.Quantity()), item.Unit(), item.Name()), nil
	}
	if !item.InStock() {
		return fmt.Sprintf("%s\nWarning: %s is now out of stock!", item.String(), item.Name()), nil
	}
	return item.String(), nil
}

func (b *Bot) deleteItem(ctx context.Context, args string) (string, error) {
	item, ok := b.grocery.Resolve(args)
	if !ok {
		return "", notFound(args)
	}
	if err := b.grocery.DeleteItem(ctx, item.ID()); err != nil {
		return "", err
	}
	return fmt.Sprintf("Deleted %s.", item.Name()), nil
}

func (b *Bot) setBudget(ctx context.Context, args string) (string, error) {
	category, amount, err := parseBudget(args)
	if err != nil {
		return "", err
	}
	if err = b.grocery.SetBudget(ctx, category, amount); err != nil {
		if errors.Is(err, model.ErrNegativeBudget) || errors.Is(err, model.ErrInvalidBudget) ||
			errors.Is(err, model.ErrEmptyCategory) {
			return "", &inputError{msg: err.Error()}
		}
		return "", err
	}
	return fmt.Sprintf("Budget set for %s: $%.2f", category, amount), nil
}

func (b *Bot) saveTrip(ctx context.Context) (string, error) {
	recorded, err := b.grocery.SaveShoppingTrip(ctx)
	if err != nil {
		return "", err
	}
	if !recorded {
		return "Nothing is in stock, no trip saved.", nil
	}
	return "Shopping trip saved!", nil
}

func (b *Bot) addFeedback(ctx context.Context, message *tgbotapi.Message, args string) (string, error) {
	rating, text, err := parseFeedback(args)
	if err != nil {
		return "", err
	}
	var name string
	if message.From != nil {
		name = message.From.UserName
	}
	if err = b.grocery.AddFeedback(ctx, name, text, rating); err != nil {
		if errors.Is(err, model.ErrInvalidFeedback) {
			return "", &inputError{msg: "Please enter a feedback message and a rating from 1 to 5."}
		}
		return "", err
	}
	return "Thank you for your feedback!", nil
}

func (b *Bot) subscribe(ctx context.Context, message *tgbotapi.Message) (string, error) {
	var username string
	if message.From != nil {
		username = message.From.UserName
	}
	if b.chats.Subscribed(ctx, message.Chat.ID) {
		return "You are already subscribed to the shopping list report.", nil
	}
	if err := b.chats.Subscribe(ctx, message.Chat.ID, username); err != nil {
		return "", err
	}
	return "You will receive the shopping list report.", nil
}

func (b *Bot) unsubscribe(ctx context.Context, message *tgbotapi.Message) (string, error) {
	if err := b.chats.Unsubscribe(ctx, message.Chat.ID); err != nil {
		return "", err
	}
	return "You will no longer receive the shopping list report.", nil
}

func (b *Bot) sendExport(message *tgbotapi.Message, name string, write func(io.Writer, []*model.Item) error) error {
	outOfStock := b.grocery.OutOfStockItems()
	if len(outOfStock) == 0 {
		return b.sendMessage(message, "No items are out of stock.")
	}
	var buf bytes.Buffer
	if err := write(&buf, outOfStock); err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{Name: name, Bytes: buf.Bytes()})
	doc.ReplyToMessageID = message.MessageID
	if _, err := b.bot.Send(doc); err != nil {
		return fmt.Errorf("sendExport, telegram bot couldn't send document: %v", err)
	}
	return nil
}

func (b *Bot) sendMessage(message *tgbotapi.Message, text string) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID

	_, err := b.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("sendMessage, telegram bot couldn't send message: %v", err)
	}
	return nil
}
