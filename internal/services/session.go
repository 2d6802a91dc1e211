package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ytakahashi/todo-api/internal/models"
	"gorm.io/gorm"
)

var ErrItemNotFound = errors.New("item not found")

// ItemSession is a unit of work over the Items table. Reads hit the database
// immediately; Add, Update and Remove are only recorded and reach the
// database on Save. A session belongs to one request and is not safe for
// concurrent use.
type ItemSession interface {
	List(ctx context.Context) ([]Item, error)
	Find(ctx context.Context, id int) (*Item, error)
	Add(item *Item)
	Update(item *Item, title string, isCompleted bool)
	Remove(item *Item)
	Save(ctx context.Context) error
}

type changeKind int

const (
	changeAdd changeKind = iota
	changeUpdate
	changeRemove
)

type pendingChange struct {
	kind changeKind
	item *Item
}

type sqliteSession struct {
	db      *gorm.DB
	pending []pendingChange
}

func (s *sqliteSession) List(ctx context.Context) ([]Item, error) {
	items := []Item{}
	if err := s.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *sqliteSession) Find(ctx context.Context, id int) (*Item, error) {
	var item Item
	err := s.db.WithContext(ctx).Where("Id = ?", id).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	return &item, nil
}

func (s *sqliteSession) Add(item *Item) {
	s.pending = append(s.pending, pendingChange{kind: changeAdd, item: item})
}

func (s *sqliteSession) Update(item *Item, title string, isCompleted bool) {
	item.Title = title
	item.IsCompleted = isCompleted
	s.pending = append(s.pending, pendingChange{kind: changeUpdate, item: item})
}

func (s *sqliteSession) Remove(item *Item) {
	s.pending = append(s.pending, pendingChange{kind: changeRemove, item: item})
}

// Save flushes pending changes in one transaction. On failure nothing is
// written and the pending changes are kept.
func (s *sqliteSession) Save(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, change := range s.pending {
			if err := applyChange(tx, change); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save changes: %w", err)
	}

	s.pending = nil
	return nil
}

func applyChange(tx *gorm.DB, change pendingChange) error {
	item := change.item
	switch change.kind {
	case changeAdd:
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to insert item %d: %w", item.ID, err)
		}
	case changeUpdate:
		err := tx.Model(&models.Item{}).
			Where("Id = ?", item.ID).
			Updates(map[string]interface{}{
				"Title":       item.Title,
				"IsCompleted": item.IsCompleted,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update item %d: %w", item.ID, err)
		}
	case changeRemove:
		if err := tx.Where("Id = ?", item.ID).Delete(&models.Item{}).Error; err != nil {
			return fmt.Errorf("failed to delete item %d: %w", item.ID, err)
		}
	}
	return nil
}
