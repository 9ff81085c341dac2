package models

type AggregationValue struct {
	Value int `json:"value"`
}

// Stats summarises the catalog the way the /store endpoint reports it.
type Stats struct {
	NumberOfBooks   AggregationValue `json:"number_of_books"`
	NumberOfAuthors AggregationValue `json:"number_of_authors"`
	TotalCopies     AggregationValue `json:"total_copies"`
	BorrowedCopies  AggregationValue `json:"borrowed_copies"`
	NumberOfMembers AggregationValue `json:"number_of_members"`
}
