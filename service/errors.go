package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library/models"
)

var statusByKind = map[models.ErrorKind]int{
	models.DuplicateISBN:          http.StatusConflict,
	models.InvalidGenre:           http.StatusBadRequest,
	models.InvalidCopies:          http.StatusBadRequest,
	models.BookNotFound:           http.StatusNotFound,
	models.BookHasBorrowedCopies:  http.StatusConflict,
	models.DuplicateMemberID:      http.StatusConflict,
	models.MemberNotFound:         http.StatusNotFound,
	models.MemberHasBorrowedBooks: http.StatusConflict,
	models.NoCopiesAvailable:      http.StatusConflict,
	models.BorrowLimitExceeded:    http.StatusConflict,
	models.NotBorrowedByMember:    http.StatusConflict,
	models.BookRecordMissing:      http.StatusGone,
}

// StatusFor maps a library error to the HTTP status it is reported with.
func StatusFor(err error) int {
	if status, ok := statusByKind[models.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	body := gin.H{"message": err.Error()}
	if kind := models.KindOf(err); kind != 0 {
		body["error"] = kind.String()
	}
	c.AbortWithStatusJSON(StatusFor(err), body)
}

func abortWithBindError(c *gin.Context, err error) {
	body := gin.H{"message": err.Error()}
	if kind := models.KindOf(err); kind != 0 {
		body["error"] = kind.String()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

// withGenreError swaps a catalog InvalidGenre for the parse error, which names the
// rejected input. Unknown genres are passed to the catalog as the zero Genre so its
// checks still run in their usual order.
func withGenreError(err, genreErr error) error {
	if genreErr != nil && models.KindOf(err) == models.InvalidGenre {
		return genreErr
	}
	return err
}
