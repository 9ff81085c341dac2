package library

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"library/models"
)

// Seed is the YAML layout used to pre-populate a catalog.
type Seed struct {
	Books   []SeedBook   `yaml:"books"`
	Members []SeedMember `yaml:"members"`
}

type SeedBook struct {
	ISBN        string `yaml:"isbn"`
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Genre       string `yaml:"genre"`
	TotalCopies *int   `yaml:"total_copies"`
}

type SeedMember struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Email    string   `yaml:"email"`
	Borrowed []string `yaml:"borrowed"`
}

func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &seed, nil
}

// Apply adds the seeded books, then the members, then their borrows through the
// regular operations. It stops at the first rejected entry.
func (seed *Seed) Apply(library models.Library) error {
	for _, book := range seed.Books {
		genre, err := models.ParseGenre(book.Genre)
		if err != nil {
			return fmt.Errorf("seed book %s: %w", book.ISBN, err)
		}

		copies := models.DefaultCopies
		if book.TotalCopies != nil {
			copies = *book.TotalCopies
		}

		if err := library.AddBook(book.ISBN, book.Title, book.Author, genre, copies); err != nil {
			return fmt.Errorf("seed book %s: %w", book.ISBN, err)
		}
	}

	for _, member := range seed.Members {
		if err := library.AddMember(member.ID, member.Name, member.Email); err != nil {
			return fmt.Errorf("seed member %s: %w", member.ID, err)
		}
	}

	for _, member := range seed.Members {
		for _, isbn := range member.Borrowed {
			if err := library.BorrowBook(member.ID, isbn); err != nil {
				return fmt.Errorf("seed borrow %s by %s: %w", isbn, member.ID, err)
			}
		}
	}

	return nil
}
