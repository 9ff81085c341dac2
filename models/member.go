package models

const MaxBorrowedBooks = 3

type Member struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	BorrowedBooks []string `json:"borrowed_books"`
}

// MemberUpdate carries the optional fields of a partial member update.
type MemberUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
