package models

// Library is the catalog surface consumed by the HTTP service and the demo.
type Library interface {
	AddBook(isbn, title, author string, genre Genre, totalCopies int) error
	UpdateBook(isbn string, update BookUpdate) error
	DeleteBook(isbn string) error
	SearchBooks(title, author string) []Book
	BookInfo(isbn string) (Book, error)

	AddMember(memberID, name, email string) error
	UpdateMember(memberID string, update MemberUpdate) error
	DeleteMember(memberID string) error
	MemberInfo(memberID string) (Member, error)
	ListMembers() []Member

	BorrowBook(memberID, isbn string) error
	ReturnBook(memberID, isbn string) error

	Stats() Stats
}
