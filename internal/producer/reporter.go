package producer

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/chucky-1/grocery/internal/model"
	"github.com/chucky-1/grocery/internal/service"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Reporter periodically sends the shopping list to subscribed chats
type Reporter struct {
	bot      sender
	grocery  *service.Grocery
	chats    service.Chats
	interval time.Duration
}

func NewReporter(bot sender, grocery *service.Grocery, chats service.Chats, interval time.Duration) *Reporter {
	return &Reporter{
		bot:      bot,
		grocery:  grocery,
		chats:    chats,
		interval: interval,
	}
}

// Produce blocks until ctx is done, sending a report at every interval boundary.
func (r *Reporter) Produce(ctx context.Context) {
	logrus.Infof("reporter producer started produce, interval %v", r.interval)

	timer := time.NewTimer(durationBeforeNextReport(time.Now(), r.interval))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("reporter producer stopped: %v", ctx.Err())
			return
		case now := <-timer.C:
			logrus.Infof("reporter producer: timer triggered in: %v", now)
			r.sendReports(ctx)
			timer.Reset(durationBeforeNextReport(time.Now(), r.interval))
		}
	}
}

func (r *Reporter) sendReports(ctx context.Context) {
	chatIDs, err := r.chats.Subscribers(ctx)
	if err != nil {
		logrus.Errorf("reporter producer couldn't get subscribers: %v", err)
		return
	}
	if len(chatIDs) == 0 {
		logrus.Debug("reporter producer: no subscribers")
		return
	}

	overview := r.grocery.Overview()
	report := buildReport(overview.OutOfStock, overview.Total, overview.WithinBudget, overview.Budgets)
	for _, chatID := range chatIDs {
		if err = r.sendReport(chatID, report); err != nil {
			logrus.Error(err)
		}
	}
}

func (r *Reporter) sendReport(chatID int64, report string) error {
	message := tgbotapi.NewMessage(chatID, report)
	_, err := r.bot.Send(message)
	if err != nil {
		return fmt.Errorf("reporter producer couldn't send report to chat %d: %v", chatID, err)
	}
	return nil
}

func durationBeforeNextReport(now time.Time, interval time.Duration) time.Duration {
	return now.Truncate(interval).Add(interval).Sub(now)
}

func buildReport(outOfStock []*model.Item, total float64, withinBudget bool, budgets model.Budgets) string {
	var sb strings.Builder
	if len(outOfStock) == 0 {
		sb.WriteString("Nothing to buy, every item is in stock.\n")
	} else {
		sb.WriteString("Shopping list:\n")
		for _, item := range outOfStock {
			fmt.Fprintf(&sb, "- %s (%s) - $%.2f/%s\n", item.Name(), item.Category(), item.Price(), item.Unit())
		}
	}
	fmt.Fprintf(&sb, "\nTotal Cost: $%.2f", total)
	if !withinBudget {
		fmt.Fprintf(&sb, "\nWarning: total budget ($%.2f) exceeded!", budgets.Limit(model.TotalBudget))
	}
	return sb.String()
}
