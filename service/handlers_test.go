package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library/cache"
	"library/db"
	"library/library"
	"library/models"
)

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[string]models.Book
	deleted []string
	fail    bool
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: make(map[string]models.Book)}
}

func (index *fakeIndex) IndexBook(_ context.Context, book models.Book) error {
	index.mu.Lock()
	defer index.mu.Unlock()
	if index.fail {
		return errors.New("index unavailable")
	}
	index.indexed[book.ISBN] = book
	return nil
}

func (index *fakeIndex) DeleteBook(_ context.Context, isbn string) error {
	index.mu.Lock()
	defer index.mu.Unlock()
	delete(index.indexed, isbn)
	index.deleted = append(index.deleted, isbn)
	return nil
}

func (index *fakeIndex) Store(context.Context) (*db.IndexStore, error) {
	index.mu.Lock()
	defer index.mu.Unlock()
	return &db.IndexStore{NumberOfBooks: float64(len(index.indexed))}, nil
}

// missingRecordLibrary reports every return as a return of a book with no catalog record.
type missingRecordLibrary struct {
	*library.Library
}

func (missingRecordLibrary) ReturnBook(string, string) error {
	return models.NewLibraryError(models.BookRecordMissing, "book record missing from library; removed from member record")
}

type testServer struct {
	router *gin.Engine
	index  *fakeIndex
	cache  *cache.MemoryRequestCacher
}

func newTestServer(t *testing.T, lib models.Library) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	index := newFakeIndex()
	cacher := cache.CreateMemoryCache(3)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testServer{
		router: SetupRoutes(NewServer(lib, index, cacher, logger)),
		index:  index,
		cache:  cacher,
	}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func errorKind(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body["error"]
}

func seededServer(t *testing.T) *testServer {
	t.Helper()

	ts := newTestServer(t, library.New())
	for _, body := range []string{
		`{"isbn":"978-0001","title":"The Little Prince","author":"Antoine de Saint-Exupéry","genre":"Fiction","total_copies":2}`,
		`{"isbn":"978-0002","title":"A Brief History of Time","author":"Stephen Hawking","genre":"Non-Fiction"}`,
	} {
		w := ts.do(t, http.MethodPut, "/book", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	for _, body := range []string{
		`{"id":"M001","name":"Alice","email":"alice@example.com"}`,
		`{"id":"M002","name":"Bob","email":"bob@example.com"}`,
	} {
		w := ts.do(t, http.MethodPut, "/member", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	return ts
}

func TestCreateAndGetBook(t *testing.T) {
	ts := seededServer(t)

	w := ts.do(t, http.MethodGet, "/book/978-0002", "")
	require.Equal(t, http.StatusOK, w.Code)

	var book models.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	assert.Equal(t, "Stephen Hawking", book.Author)
	assert.Equal(t, models.NonFiction, book.Genre)
	assert.Equal(t, models.DefaultCopies, book.TotalCopies)

	assert.Contains(t, ts.index.indexed, "978-0001")
	assert.Contains(t, ts.index.indexed, "978-0002")
}

func TestCreateBookErrors(t *testing.T) {
	ts := seededServer(t)

	w := ts.do(t, http.MethodPut, "/book", `{"isbn":"978-0001","title":"T","author":"A","genre":"History"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DuplicateISBN", errorKind(t, w))

	w = ts.do(t, http.MethodPut, "/book", `{"isbn":"978-0009","title":"T","author":"A","genre":"Poetry"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidGenre", errorKind(t, w))

	w = ts.do(t, http.MethodPut, "/book", `{"isbn":"978-0009","title":"T","author":"A","genre":"History","total_copies":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidCopies", errorKind(t, w))

	w = ts.do(t, http.MethodGet, "/book/978-0009", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "BookNotFound", errorKind(t, w))
}

func TestGenreIsCheckedAfterBookExistence(t *testing.T) {
	ts := seededServer(t)

	w := ts.do(t, http.MethodPut, "/book", `{"isbn":"978-0001","title":"T","author":"A","genre":"Poetry"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DuplicateISBN", errorKind(t, w))

	w = ts.do(t, http.MethodPost, "/book/nope", `{"genre":"Poetry"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "BookNotFound", errorKind(t, w))

	w = ts.do(t, http.MethodPost, "/book/978-0001", `{"title":"Changed","genre":"Poetry"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidGenre", errorKind(t, w))
	assert.Contains(t, w.Body.String(), "Poetry")

	w = ts.do(t, http.MethodGet, "/book/978-0001", "")
	var book models.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	assert.Equal(t, "The Little Prince", book.Title)
	assert.Equal(t, models.Fiction, book.Genre)
}

func TestUpdateBookPartial(t *testing.T) {
	ts := seededServer(t)

	w := ts.do(t, http.MethodPost, "/book/978-0001", `{"total_copies":5,"genre":"Children"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	book := ts.index.indexed["978-0001"]
	assert.Equal(t, 5, book.TotalCopies)
	assert.Equal(t, models.Children, book.Genre)
	assert.Equal(t, "The Little Prince", book.Title)
}

func TestSearchBooks(t *testing.T) {
	ts := seededServer(t)

	w := ts.do(t, http.MethodGet, "/search?title=prince", "")
	require.Equal(t, http.StatusOK, w.Code)

	var books []models.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "978-0001", books[0].ISBN)

	w = ts.do(t, http.MethodGet, "/search", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	assert.Len(t, books, 2)
}

func TestBorrowReturnAndDelete(t *testing.T) {
	ts := seededServer(t)

	w := ts.do(t, http.MethodPost, "/member/M002/borrow/978-0002", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, ts.index.indexed["978-0002"].BorrowedCount)

	w = ts.do(t, http.MethodPost, "/member/M001/borrow/978-0002", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "NoCopiesAvailable", errorKind(t, w))

	w = ts.do(t, http.MethodDelete, "/book/978-0002", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "BookHasBorrowedCopies", errorKind(t, w))

	w = ts.do(t, http.MethodDelete, "/member/M002", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "MemberHasBorrowedBooks", errorKind(t, w))

	w = ts.do(t, http.MethodPost, "/member/M001/return/978-0002", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "NotBorrowedByMember", errorKind(t, w))

	w = ts.do(t, http.MethodPost, "/member/M002/return/978-0002", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, ts.index.indexed["978-0002"].BorrowedCount)

	w = ts.do(t, http.MethodDelete, "/book/978-0002", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, ts.index.indexed, "978-0002")
	assert.Equal(t, []string{"978-0002"}, ts.index.deleted)
}

func TestBorrowUnknownMember(t *testing.T) {
	ts := seededServer(t)

	w := ts.do(t, http.MethodPost, "/member/M404/borrow/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MemberNotFound", errorKind(t, w))
}

func TestReturnWithMissingBookRecord(t *testing.T) {
	lib := library.New()
	require.NoError(t, lib.AddMember("M001", "Alice", "alice@example.com"))
	ts := newTestServer(t, missingRecordLibrary{lib})

	w := ts.do(t, http.MethodPost, "/member/M001/return/978-0001", "")
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, "BookRecordMissing", errorKind(t, w))
	assert.Equal(t, []string{"978-0001"}, ts.index.deleted)
}

func TestIndexFailureDoesNotFailRequest(t *testing.T) {
	ts := newTestServer(t, library.New())
	ts.index.fail = true

	w := ts.do(t, http.MethodPut, "/book", `{"isbn":"1","title":"T","author":"A","genre":"History"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMemberEndpoints(t *testing.T) {
	ts := seededServer(t)

	w := ts.do(t, http.MethodPut, "/member", `{"id":"M001","name":"Other"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DuplicateMemberID", errorKind(t, w))

	w = ts.do(t, http.MethodPost, "/member/M001", `{"email":"alice@library.test"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/member/M001", "")
	require.Equal(t, http.StatusOK, w.Code)
	var member models.Member
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &member))
	assert.Equal(t, "Alice", member.Name)
	assert.Equal(t, "alice@library.test", member.Email)
	assert.Empty(t, member.BorrowedBooks)

	w = ts.do(t, http.MethodDelete, "/member/M002", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/members", "")
	var members []models.Member
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &members))
	require.Len(t, members, 1)
	assert.Equal(t, "M001", members[0].ID)

	w = ts.do(t, http.MethodGet, "/member/M002", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoreEndpoints(t *testing.T) {
	ts := seededServer(t)

	w := ts.do(t, http.MethodGet, "/store", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.NumberOfBooks.Value)
	assert.Equal(t, 2, stats.NumberOfAuthors.Value)
	assert.Equal(t, 3, stats.TotalCopies.Value)
	assert.Equal(t, 2, stats.NumberOfMembers.Value)

	w = ts.do(t, http.MethodGet, "/index/store", "")
	require.Equal(t, http.StatusOK, w.Code)
	var store db.IndexStore
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &store))
	assert.Equal(t, 2.0, store.NumberOfBooks)
}

func TestActivityIsRecordedPerUsername(t *testing.T) {
	ts := seededServer(t)

	paths := []string{
		"/book/978-0001?username=alice",
		"/search?title=time&username=alice",
		"/store?username=alice",
		"/book/978-0404?username=alice",
		"/store?username=bob",
		"/store",
	}
	for _, path := range paths {
		ts.do(t, http.MethodGet, path, "")
	}

	w := ts.do(t, http.MethodGet, "/activity/alice", "")
	require.Equal(t, http.StatusOK, w.Code)

	var requests []models.UserRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &requests))
	require.Len(t, requests, 3)
	assert.Equal(t, "/book/978-0404", requests[0].Route)
	assert.Equal(t, http.StatusNotFound, requests[0].Status)
	assert.Equal(t, "/store", requests[1].Route)
	assert.Equal(t, "/search", requests[2].Route)
	assert.NotEmpty(t, requests[0].RequestID)

	w = ts.do(t, http.MethodGet, "/activity/bob", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &requests))
	assert.Len(t, requests, 1)
}

func TestRequestIDHeader(t *testing.T) {
	ts := seededServer(t)

	w := ts.do(t, http.MethodGet, "/store", "")
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/store", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(requestIDHeader))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
	assert.Equal(t, http.StatusGone, StatusFor(models.ErrBookRecordMissing))
	assert.Equal(t, http.StatusConflict, StatusFor(models.ErrBorrowLimitExceeded))
}
