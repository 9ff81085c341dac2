package models

import "errors"

// ErrorKind discriminates the failures a Library operation can report.
type ErrorKind int

const (
	DuplicateISBN ErrorKind = iota + 1
	InvalidGenre
	InvalidCopies
	BookNotFound
	BookHasBorrowedCopies
	DuplicateMemberID
	MemberNotFound
	MemberHasBorrowedBooks
	NoCopiesAvailable
	BorrowLimitExceeded
	NotBorrowedByMember
	BookRecordMissing
)

var kindNames = map[ErrorKind]string{
	DuplicateISBN:          "DuplicateISBN",
	InvalidGenre:           "InvalidGenre",
	InvalidCopies:          "InvalidCopies",
	BookNotFound:           "BookNotFound",
	BookHasBorrowedCopies:  "BookHasBorrowedCopies",
	DuplicateMemberID:      "DuplicateMemberID",
	MemberNotFound:         "MemberNotFound",
	MemberHasBorrowedBooks: "MemberHasBorrowedBooks",
	NoCopiesAvailable:      "NoCopiesAvailable",
	BorrowLimitExceeded:    "BorrowLimitExceeded",
	NotBorrowedByMember:    "NotBorrowedByMember",
	BookRecordMissing:      "BookRecordMissing",
}

func (kind ErrorKind) String() string {
	if name, ok := kindNames[kind]; ok {
		return name
	}
	return "Unknown"
}

// Sentinels for use with errors.Is. Matching compares the kind only.
var (
	ErrDuplicateISBN          = &LibraryError{Kind: DuplicateISBN}
	ErrInvalidGenre           = &LibraryError{Kind: InvalidGenre}
	ErrInvalidCopies          = &LibraryError{Kind: InvalidCopies}
	ErrBookNotFound           = &LibraryError{Kind: BookNotFound}
	ErrBookHasBorrowedCopies  = &LibraryError{Kind: BookHasBorrowedCopies}
	ErrDuplicateMemberID      = &LibraryError{Kind: DuplicateMemberID}
	ErrMemberNotFound         = &LibraryError{Kind: MemberNotFound}
	ErrMemberHasBorrowedBooks = &LibraryError{Kind: MemberHasBorrowedBooks}
	ErrNoCopiesAvailable      = &LibraryError{Kind: NoCopiesAvailable}
	ErrBorrowLimitExceeded    = &LibraryError{Kind: BorrowLimitExceeded}
	ErrNotBorrowedByMember    = &LibraryError{Kind: NotBorrowedByMember}
	ErrBookRecordMissing      = &LibraryError{Kind: BookRecordMissing}
)

// LibraryError is the only error type returned by Library operations.
type LibraryError struct {
	Kind    ErrorKind
	Message string
}

func (e *LibraryError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is reports whether target is a LibraryError of the same kind.
func (e *LibraryError) Is(target error) bool {
	var other *LibraryError
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// NewLibraryError creates a LibraryError of the given kind
func NewLibraryError(kind ErrorKind, message string) *LibraryError {
	return &LibraryError{Kind: kind, Message: message}
}

// KindOf returns the kind of the LibraryError in err's chain, or 0 if there is none.
func KindOf(err error) ErrorKind {
	var libraryErr *LibraryError
	if errors.As(err, &libraryErr) {
		return libraryErr.Kind
	}
	return 0
}
