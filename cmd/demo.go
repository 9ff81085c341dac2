package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"library/library"
	"library/models"
)

// DemoCmd represents the demo command. It always starts from an empty catalog.
type DemoCmd struct {
	Out io.Writer `kong:"-"`
}

func (d *DemoCmd) Run() error {
	out := d.Out
	if out == nil {
		out = os.Stdout
	}

	return RunDemo(library.New(), out)
}

// RunDemo walks through adding, borrowing, returning and deleting, printing each step.
// Steps that are expected to fail print the error and continue.
func RunDemo(lib models.Library, out io.Writer) error {
	fmt.Fprintln(out, "=== DEMO: create books and members ===")
	steps := []error{
		lib.AddBook("978-0001", "The Little Prince", "Antoine de Saint-Exupéry", models.Fiction, 2),
		lib.AddBook("978-0002", "A Brief History of Time", "Stephen Hawking", models.NonFiction, models.DefaultCopies),
		lib.AddMember("M001", "Alice", "alice@example.com"),
		lib.AddMember("M002", "Bob", "bob@example.com"),
	}
	if err := errors.Join(steps...); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nBooks after adding:")
	printBooks(out, lib.SearchBooks("", ""))

	fmt.Fprintln(out, "\nAlice borrows The Little Prince")
	if err := lib.BorrowBook("M001", "978-0001"); err != nil {
		fmt.Fprintln(out, "Error:", err)
	}
	if err := printMember(out, lib, "Alice", "M001"); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nBob borrows A Brief History of Time")
	if err := lib.BorrowBook("M002", "978-0002"); err != nil {
		return err
	}
	if err := printMember(out, lib, "Bob", "M002"); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nAttempting to delete book that has borrowed copies (should fail):")
	if err := lib.DeleteBook("978-0002"); err != nil {
		fmt.Fprintf(out, "Expected error: %s (%s)\n", err, models.KindOf(err))
	}

	fmt.Fprintln(out, "\nBob returns A Brief History of Time")
	if err := lib.ReturnBook("M002", "978-0002"); err != nil {
		return err
	}
	if err := printMember(out, lib, "Bob", "M002"); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nNow delete book 978-0002 (should succeed):")
	if err := lib.DeleteBook("978-0002"); err != nil {
		return err
	}

	fmt.Fprintln(out, "Books now:")
	printBooks(out, lib.SearchBooks("", ""))

	return nil
}

func printBooks(out io.Writer, books []models.Book) {
	for _, book := range books {
		fmt.Fprintf(out, "%s: %s by %s (%s) copies:%d borrowed:%d\n",
			book.ISBN, book.Title, book.Author, book.Genre, book.TotalCopies, book.BorrowedCount)
	}
}

func printMember(out io.Writer, lib models.Library, label, memberID string) error {
	member, err := lib.MemberInfo(memberID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s info: id=%s name=%s email=%s borrowed=%v\n",
		label, member.ID, member.Name, member.Email, member.BorrowedBooks)
	return nil
}
