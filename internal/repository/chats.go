package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Chats remembers which telegram chats subscribed to shopping-list reports.
type Chats interface {
	Add(ctx context.Context, chatID int64, username string) error
	Get(ctx context.Context, chatID int64) (string, error)
	Remove(ctx context.Context, chatID int64) error
	List(ctx context.Context) ([]int64, error)
}

type ChatsLocalStorage struct {
	mu sync.RWMutex
	m  map[int64]string
}

func NewChatsLocalStorage() *ChatsLocalStorage {
	return &ChatsLocalStorage{
		m: make(map[int64]string),
	}
}

func (l *ChatsLocalStorage) Add(_ context.Context, chatID int64, username string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m[chatID] = username
	return nil
}

func (l *ChatsLocalStorage) Get(_ context.Context, chatID int64) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.m[chatID]
	if !ok {
		return "", fmt.Errorf("repository.ChatsLocalStorage.Get value with key: %d doesn't exist", chatID)
	}
	return v, nil
}

func (l *ChatsLocalStorage) Remove(_ context.Context, chatID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.m, chatID)
	return nil
}

// List returns subscribed chat ids in ascending order.
func (l *ChatsLocalStorage) List(_ context.Context) ([]int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]int64, 0, len(l.m))
	for id := range l.m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
