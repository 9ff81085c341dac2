package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

const DefaultCopies = 1

type Genre int

const (
	Fiction Genre = iota + 1
	NonFiction
	SciFi
	Biography
	History
	Children
)

var genreNames = map[Genre]string{
	Fiction:    "Fiction",
	NonFiction: "Non-Fiction",
	SciFi:      "Sci-Fi",
	Biography:  "Biography",
	History:    "History",
	Children:   "Children",
}

// Genres lists every valid genre in display order.
func Genres() []Genre {
	return []Genre{Fiction, NonFiction, SciFi, Biography, History, Children}
}

// ParseGenre converts a display name such as "Sci-Fi" into a Genre.
func ParseGenre(name string) (Genre, error) {
	for _, genre := range Genres() {
		if genreNames[genre] == name {
			return genre, nil
		}
	}

	names := make([]string, 0, len(genreNames))
	for _, genre := range Genres() {
		names = append(names, genreNames[genre])
	}

	return 0, NewLibraryError(InvalidGenre,
		fmt.Sprintf("genre '%s' is invalid, valid genres: %s", name, strings.Join(names, ", ")))
}

func (genre Genre) Valid() bool {
	_, ok := genreNames[genre]
	return ok
}

func (genre Genre) String() string {
	if name, ok := genreNames[genre]; ok {
		return name
	}
	return fmt.Sprintf("Genre(%d)", int(genre))
}

// MarshalJSON writes the genre as its display name
func (genre Genre) MarshalJSON() ([]byte, error) {
	if !genre.Valid() {
		return nil, NewLibraryError(InvalidGenre, fmt.Sprintf("genre %d is invalid", int(genre)))
	}
	return json.Marshal(genre.String())
}

// UnmarshalJSON parses a display name, rejecting anything outside the fixed set
func (genre *Genre) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}

	parsed, err := ParseGenre(name)
	if err != nil {
		return err
	}

	*genre = parsed
	return nil
}

type Book struct {
	ISBN          string `json:"isbn"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         Genre  `json:"genre"`
	TotalCopies   int    `json:"total_copies"`
	BorrowedCount int    `json:"borrowed_count"`
}

// Available returns the number of copies that can still be borrowed.
func (book Book) Available() int {
	return book.TotalCopies - book.BorrowedCount
}

// BookUpdate carries the optional fields of a partial book update. Nil fields are left untouched.
type BookUpdate struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Genre       *Genre  `json:"genre"`
	TotalCopies *int    `json:"total_copies"`
}
