package service

import (
	"context"

	"github.com/chucky-1/grocery/internal/repository"
)

// Chats tracks the chats subscribed to the shopping-list report.
type Chats interface {
	Subscribe(ctx context.Context, chatID int64, username string) error
	Unsubscribe(ctx context.Context, chatID int64) error
	Subscribed(ctx context.Context, chatID int64) bool
	Subscribers(ctx context.Context) ([]int64, error)
}

type chats struct {
	repo repository.Chats
}

func NewChats(repo repository.Chats) *chats {
	return &chats{
		repo: repo,
	}
}

func (c *chats) Subscribe(ctx context.Context, chatID int64, username string) error {
	return c.repo.Add(ctx, chatID, username)
}

func (c *chats) Unsubscribe(ctx context.Context, chatID int64) error {
	return c.repo.Remove(ctx, chatID)
}

func (c *chats) Subscribed(ctx context.Context, chatID int64) bool {
	_, err := c.repo.Get(ctx, chatID)
	return err == nil
}

func (c *chats) Subscribers(ctx context.Context) ([]int64, error) {
	return c.repo.List(ctx)
}
