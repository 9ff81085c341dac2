package db

import (
	"context"
	"fmt"

	"github.com/olivere/elastic/v7"

	"library/models"
)

const defaultIndexName = "books"

type ElasticBookIndex struct {
	IndexName     string
	ElasticClient *elastic.Client
}

func CreateElasticBookIndex(indexName string, client *elastic.Client) *ElasticBookIndex {
	if indexName == "" {
		indexName = defaultIndexName
	}
	return &ElasticBookIndex{IndexName: indexName, ElasticClient: client}
}

// elasticBook is the document stored per ISBN. Genre is kept as its display name.
type elasticBook struct {
	ISBN          string `json:"isbn"`
	Title         string `json:"title"`
	AuthorName    string `json:"author_name"`
	Genre         string `json:"genre"`
	TotalCopies   int    `json:"total_copies"`
	BorrowedCount int    `json:"borrowed_count"`
	Available     int    `json:"available"`
}

func toElasticBook(book models.Book) elasticBook {
	return elasticBook{
		ISBN:          book.ISBN,
		Title:         book.Title,
		AuthorName:    book.Author,
		Genre:         book.Genre.String(),
		TotalCopies:   book.TotalCopies,
		BorrowedCount: book.BorrowedCount,
		Available:     book.Available(),
	}
}

// IndexBook creates or replaces the document for book, using the ISBN as document id.
func (index *ElasticBookIndex) IndexBook(ctx context.Context, book models.Book) error {
	_, err := index.ElasticClient.Index().
		Index(index.IndexName).
		Id(book.ISBN).
		BodyJson(toElasticBook(book)).
		Do(ctx)

	if err != nil {
		return fmt.Errorf("failed to index book %s: %w", book.ISBN, err)
	}
	return nil
}

// DeleteBook removes the document for isbn. A document that is already gone is not an error.
func (index *ElasticBookIndex) DeleteBook(ctx context.Context, isbn string) error {
	_, err := index.ElasticClient.
		Delete().
		Index(index.IndexName).
		Id(isbn).
		Do(ctx)

	if err != nil && !elastic.IsNotFound(err) {
		return fmt.Errorf("failed to delete book %s from index: %w", isbn, err)
	}
	return nil
}

func (index *ElasticBookIndex) Store(ctx context.Context) (*IndexStore, error) {
	titleAggregation := elastic.NewCardinalityAggregation().Field("_id")
	authorsAggregation := elastic.NewCardinalityAggregation().Field("author_name.keyword")

	query := index.ElasticClient.Search().
		Index(index.IndexName).
		Aggregation("number_of_books", titleAggregation).
		Aggregation("number_of_authors", authorsAggregation).
		Size(0)

	results, err := query.Do(ctx)
	if err != nil {
		return nil, err
	}

	store := &IndexStore{}
	if numberOfBooks, ok := results.Aggregations.Cardinality("number_of_books"); ok && numberOfBooks.Value != nil {
		store.NumberOfBooks = *numberOfBooks.Value
	}
	if numberOfAuthors, ok := results.Aggregations.Cardinality("number_of_authors"); ok && numberOfAuthors.Value != nil {
		store.NumberOfAuthors = *numberOfAuthors.Value
	}

	return store, nil
}
