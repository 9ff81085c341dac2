// Package library holds the in-memory catalog: books keyed by ISBN, members, and the
// borrow/return transitions that keep the two consistent.
package library

import (
	"fmt"
	"strings"
	"sync"

	"library/models"
)

// Library owns every book and member record. A single mutex guards both collections
// since borrow and return touch books and members together.
type Library struct {
	mu      sync.Mutex
	books   map[string]*models.Book
	order   []string
	members []*models.Member
}

var _ models.Library = (*Library)(nil)

func New() *Library {
	return &Library{
		books: make(map[string]*models.Book),
	}
}

// ---------- Books ----------

func (library *Library) AddBook(isbn, title, author string, genre models.Genre, totalCopies int) error {
	library.mu.Lock()
	defer library.mu.Unlock()

	if _, ok := library.books[isbn]; ok {
		return models.NewLibraryError(models.DuplicateISBN, fmt.Sprintf("book with ISBN %s already exists", isbn))
	}
	if !genre.Valid() {
		return models.NewLibraryError(models.InvalidGenre, fmt.Sprintf("genre '%s' is invalid", genre))
	}
	if totalCopies < 1 {
		return models.NewLibraryError(models.InvalidCopies, "total_copies must be >= 1")
	}

	library.books[isbn] = &models.Book{
		ISBN:        isbn,
		Title:       title,
		Author:      author,
		Genre:       genre,
		TotalCopies: totalCopies,
	}
	library.order = append(library.order, isbn)

	return nil
}

// UpdateBook applies every set field of update, or none of them if any is invalid.
func (library *Library) UpdateBook(isbn string, update models.BookUpdate) error {
	library.mu.Lock()
	defer library.mu.Unlock()

	book, ok := library.books[isbn]
	if !ok {
		return bookNotFound(isbn)
	}

	if update.Genre != nil && !update.Genre.Valid() {
		return models.NewLibraryError(models.InvalidGenre, fmt.Sprintf("genre '%s' is invalid", *update.Genre))
	}
	if update.TotalCopies != nil {
		if *update.TotalCopies < book.BorrowedCount {
			return models.NewLibraryError(models.InvalidCopies, "new total_copies cannot be less than borrowed_count")
		}
		if *update.TotalCopies < 1 {
			return models.NewLibraryError(models.InvalidCopies, "total_copies must be >= 1")
		}
	}

	if update.Title != nil {
		book.Title = *update.Title
	}
	if update.Author != nil {
		book.Author = *update.Author
	}
	if update.Genre != nil {
		book.Genre = *update.Genre
	}
	if update.TotalCopies != nil {
		book.TotalCopies = *update.TotalCopies
	}

	return nil
}

func (library *Library) DeleteBook(isbn string) error {
	library.mu.Lock()
	defer library.mu.Unlock()

	book, ok := library.books[isbn]
	if !ok {
		return bookNotFound(isbn)
	}
	if book.BorrowedCount > 0 {
		return models.NewLibraryError(models.BookHasBorrowedCopies, "cannot delete a book that has borrowed copies")
	}

	library.removeBook(isbn)
	return nil
}

// SearchBooks matches title and author as case-insensitive substrings. An empty
// filter accepts every book. Results follow insertion order.
func (library *Library) SearchBooks(title, author string) []models.Book {
	library.mu.Lock()
	defer library.mu.Unlock()

	title = strings.ToLower(title)
	author = strings.ToLower(author)

	results := make([]models.Book, 0, len(library.order))
	for _, isbn := range library.order {
		book := library.books[isbn]
		if title != "" && !strings.Contains(strings.ToLower(book.Title), title) {
			continue
		}
		if author != "" && !strings.Contains(strings.ToLower(book.Author), author) {
			continue
		}
		results = append(results, *book)
	}

	return results
}

func (library *Library) BookInfo(isbn string) (models.Book, error) {
	library.mu.Lock()
	defer library.mu.Unlock()

	book, ok := library.books[isbn]
	if !ok {
		return models.Book{}, bookNotFound(isbn)
	}
	return *book, nil
}

// ---------- Members ----------

func (library *Library) AddMember(memberID, name, email string) error {
	library.mu.Lock()
	defer library.mu.Unlock()

	if library.findMember(memberID) != nil {
		return models.NewLibraryError(models.DuplicateMemberID, fmt.Sprintf("member id %s already exists", memberID))
	}

	library.members = append(library.members, &models.Member{
		ID:            memberID,
		Name:          name,
		Email:         email,
		BorrowedBooks: []string{},
	})
	return nil
}

func (library *Library) UpdateMember(memberID string, update models.MemberUpdate) error {
	library.mu.Lock()
	defer library.mu.Unlock()

	member := library.findMember(memberID)
	if member == nil {
		return memberNotFound(memberID)
	}

	if update.Name != nil {
		member.Name = *update.Name
	}
	if update.Email != nil {
		member.Email = *update.Email
	}
	return nil
}

func (library *Library) DeleteMember(memberID string) error {
	library.mu.Lock()
	defer library.mu.Unlock()

	for i, member := range library.members {
		if member.ID != memberID {
			continue
		}
		if len(member.BorrowedBooks) > 0 {
			return models.NewLibraryError(models.MemberHasBorrowedBooks, "cannot delete member with borrowed books")
		}
		library.members = append(library.members[:i], library.members[i+1:]...)
		return nil
	}

	return memberNotFound(memberID)
}

func (library *Library) MemberInfo(memberID string) (models.Member, error) {
	library.mu.Lock()
	defer library.mu.Unlock()

	member := library.findMember(memberID)
	if member == nil {
		return models.Member{}, memberNotFound(memberID)
	}
	return copyMember(member), nil
}

func (library *Library) ListMembers() []models.Member {
	library.mu.Lock()
	defer library.mu.Unlock()

	members := make([]models.Member, 0, len(library.members))
	for _, member := range library.members {
		members = append(members, copyMember(member))
	}
	return members
}

// ---------- Borrow / Return ----------

// BorrowBook lends one copy of isbn to the member. The checks run in a fixed order
// and the first failing one is reported.
func (library *Library) BorrowBook(memberID, isbn string) error {
	library.mu.Lock()
	defer library.mu.Unlock()

	member := library.findMember(memberID)
	if member == nil {
		return memberNotFound(memberID)
	}
	book, ok := library.books[isbn]
	if !ok {
		return bookNotFound(isbn)
	}
	if book.Available() <= 0 {
		return models.NewLibraryError(models.NoCopiesAvailable, "no copies available to borrow")
	}
	if len(member.BorrowedBooks) >= models.MaxBorrowedBooks {
		return models.NewLibraryError(models.BorrowLimitExceeded,
			fmt.Sprintf("member has already borrowed maximum (%d) books", models.MaxBorrowedBooks))
	}

	book.BorrowedCount++
	member.BorrowedBooks = append(member.BorrowedBooks, isbn)
	return nil
}

// ReturnBook takes one copy of isbn back from the member. When the book record is
// gone from the catalog the member's entry is still removed and BookRecordMissing is
// reported.
func (library *Library) ReturnBook(memberID, isbn string) error {
	library.mu.Lock()
	defer library.mu.Unlock()

	member := library.findMember(memberID)
	if member == nil {
		return memberNotFound(memberID)
	}

	index := indexOf(member.BorrowedBooks, isbn)
	if index < 0 {
		return models.NewLibraryError(models.NotBorrowedByMember, "this member did not borrow that book")
	}

	member.BorrowedBooks = append(member.BorrowedBooks[:index], member.BorrowedBooks[index+1:]...)

	book, ok := library.books[isbn]
	if !ok {
		return models.NewLibraryError(models.BookRecordMissing,
			"book record missing from library; removed from member record")
	}

	book.BorrowedCount--
	return nil
}

// Stats counts books, distinct authors, copies and members.
func (library *Library) Stats() models.Stats {
	library.mu.Lock()
	defer library.mu.Unlock()

	var stats models.Stats
	authors := make(map[string]struct{})
	for _, book := range library.books {
		authors[book.Author] = struct{}{}
		stats.TotalCopies.Value += book.TotalCopies
		stats.BorrowedCopies.Value += book.BorrowedCount
	}

	stats.NumberOfBooks.Value = len(library.books)
	stats.NumberOfAuthors.Value = len(authors)
	stats.NumberOfMembers.Value = len(library.members)
	return stats
}

func (library *Library) findMember(memberID string) *models.Member {
	for _, member := range library.members {
		if member.ID == memberID {
			return member
		}
	}
	return nil
}

func (library *Library) removeBook(isbn string) {
	delete(library.books, isbn)
	if index := indexOf(library.order, isbn); index >= 0 {
		library.order = append(library.order[:index], library.order[index+1:]...)
	}
}

func copyMember(member *models.Member) models.Member {
	copied := *member
	copied.BorrowedBooks = append([]string{}, member.BorrowedBooks...)
	return copied
}

func indexOf(values []string, value string) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}

func bookNotFound(isbn string) error {
	return models.NewLibraryError(models.BookNotFound, fmt.Sprintf("no book with ISBN %s", isbn))
}

func memberNotFound(memberID string) error {
	return models.NewLibraryError(models.MemberNotFound, fmt.Sprintf("no member with id %s", memberID))
}
