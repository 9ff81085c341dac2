package db

import (
	"context"

	"library/models"
)

// BookIndex mirrors catalog books into a secondary search store.
type BookIndex interface {
	IndexBook(ctx context.Context, book models.Book) error
	DeleteBook(ctx context.Context, isbn string) error
	Store(ctx context.Context) (*IndexStore, error)
}

// IndexStore is the aggregation reported by the index for /index/store.
type IndexStore struct {
	NumberOfBooks   float64 `json:"number_of_books"`
	NumberOfAuthors float64 `json:"number_of_authors"`
}

// NopBookIndex is used when no search store is configured.
type NopBookIndex struct{}

func (NopBookIndex) IndexBook(context.Context, models.Book) error { return nil }

func (NopBookIndex) DeleteBook(context.Context, string) error { return nil }

func (NopBookIndex) Store(context.Context) (*IndexStore, error) { return &IndexStore{}, nil }
