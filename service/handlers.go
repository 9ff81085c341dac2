package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library/cache"
	"library/db"
	"library/models"
)

type Server struct {
	Library models.Library
	Index   db.BookIndex
	Cache   cache.RequestCacher
	Logger  *slog.Logger
}

func NewServer(library models.Library, index db.BookIndex, cacher cache.RequestCacher, logger *slog.Logger) *Server {
	if index == nil {
		index = db.NopBookIndex{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Library: library, Index: index, Cache: cacher, Logger: logger}
}

type createBookRequest struct {
	ISBN        string `json:"isbn" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	Genre       string `json:"genre" binding:"required"`
	TotalCopies *int   `json:"total_copies"`
}

// updateBookRequest keeps genre as a string so the catalog reports a missing book
// before an invalid genre.
type updateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Genre       *string `json:"genre"`
	TotalCopies *int    `json:"total_copies"`
}

type createMemberRequest struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

// ---------- Books ----------

func (server *Server) CreateBook(c *gin.Context) {
	var request createBookRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abortWithBindError(c, err)
		return
	}

	copies := models.DefaultCopies
	if request.TotalCopies != nil {
		copies = *request.TotalCopies
	}

	genre, genreErr := models.ParseGenre(request.Genre)
	if err := server.Library.AddBook(request.ISBN, request.Title, request.Author, genre, copies); err != nil {
		abortWithError(c, withGenreError(err, genreErr))
		return
	}

	server.Logger.Info("Book added", "isbn", request.ISBN, "title", request.Title)
	server.syncBook(c, request.ISBN)

	c.JSON(http.StatusOK, gin.H{
		"status": "created",
		"isbn":   request.ISBN,
	})
}

func (server *Server) UpdateBook(c *gin.Context) {
	isbn := c.Param("isbn")

	var request updateBookRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abortWithBindError(c, err)
		return
	}

	update := models.BookUpdate{
		Title:       request.Title,
		Author:      request.Author,
		TotalCopies: request.TotalCopies,
	}

	var genreErr error
	if request.Genre != nil {
		var genre models.Genre
		genre, genreErr = models.ParseGenre(*request.Genre)
		update.Genre = &genre
	}

	if err := server.Library.UpdateBook(isbn, update); err != nil {
		abortWithError(c, withGenreError(err, genreErr))
		return
	}

	server.Logger.Info("Book updated", "isbn", isbn)
	server.syncBook(c, isbn)

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (server *Server) GetBook(c *gin.Context) {
	book, err := server.Library.BookInfo(c.Param("isbn"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

func (server *Server) DeleteBook(c *gin.Context) {
	isbn := c.Param("isbn")

	if err := server.Library.DeleteBook(isbn); err != nil {
		abortWithError(c, err)
		return
	}

	server.Logger.Info("Book deleted", "isbn", isbn)
	server.unindexBook(c, isbn)

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (server *Server) SearchBooks(c *gin.Context) {
	books := server.Library.SearchBooks(c.Query("title"), c.Query("author"))
	c.JSON(http.StatusOK, books)
}

func (server *Server) Store(c *gin.Context) {
	c.JSON(http.StatusOK, server.Library.Stats())
}

func (server *Server) IndexStore(c *gin.Context) {
	store, err := server.Index.Store(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, store)
}

// ---------- Members ----------

func (server *Server) CreateMember(c *gin.Context) {
	var request createMemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abortWithBindError(c, err)
		return
	}

	if err := server.Library.AddMember(request.ID, request.Name, request.Email); err != nil {
		abortWithError(c, err)
		return
	}

	server.Logger.Info("Member added", "member_id", request.ID)

	c.JSON(http.StatusOK, gin.H{
		"status": "created",
		"id":     request.ID,
	})
}

func (server *Server) UpdateMember(c *gin.Context) {
	id := c.Param("id")

	var update models.MemberUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithBindError(c, err)
		return
	}

	if err := server.Library.UpdateMember(id, update); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (server *Server) GetMember(c *gin.Context) {
	member, err := server.Library.MemberInfo(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

func (server *Server) ListMembers(c *gin.Context) {
	c.JSON(http.StatusOK, server.Library.ListMembers())
}

func (server *Server) DeleteMember(c *gin.Context) {
	id := c.Param("id")

	if err := server.Library.DeleteMember(id); err != nil {
		abortWithError(c, err)
		return
	}

	server.Logger.Info("Member deleted", "member_id", id)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ---------- Borrow / Return ----------

func (server *Server) BorrowBook(c *gin.Context) {
	id, isbn := c.Param("id"), c.Param("isbn")

	if err := server.Library.BorrowBook(id, isbn); err != nil {
		abortWithError(c, err)
		return
	}

	server.Logger.Info("Book borrowed", "member_id", id, "isbn", isbn)
	server.syncBook(c, isbn)

	c.JSON(http.StatusOK, gin.H{"status": "borrowed"})
}

func (server *Server) ReturnBook(c *gin.Context) {
	id, isbn := c.Param("id"), c.Param("isbn")

	if err := server.Library.ReturnBook(id, isbn); err != nil {
		if errors.Is(err, models.ErrBookRecordMissing) {
			// member side was repaired, drop any stale document too
			server.Logger.Warn("Returned book has no catalog record", "member_id", id, "isbn", isbn)
			server.unindexBook(c, isbn)
		}
		abortWithError(c, err)
		return
	}

	server.Logger.Info("Book returned", "member_id", id, "isbn", isbn)
	server.syncBook(c, isbn)

	c.JSON(http.StatusOK, gin.H{"status": "returned"})
}

// ---------- Activity ----------

func (server *Server) Activity(c *gin.Context) {
	username := c.Param("username")

	userRequests, err := server.Cache.Read(username)

	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message": err.Error(),
		})
		return
	}

	userRequestsRaw := make([]models.UserRequest, 0, len(userRequests))

	for _, request := range userRequests {
		var userRequest models.UserRequest
		if err := json.Unmarshal([]byte(request), &userRequest); err != nil {
			server.Logger.Warn("Skipping unreadable activity entry", "username", username, "error", err)
			continue
		}
		userRequestsRaw = append(userRequestsRaw, userRequest)
	}

	c.JSON(http.StatusOK, userRequestsRaw)
}

// CacheUserRequest records the request under the ?username= query parameter once the
// handler has run. Caching failures never fail the request.
func (server *Server) CacheUserRequest(c *gin.Context) {
	username, ok := c.GetQuery("username")

	c.Next()

	if !ok || username == "" {
		return
	}

	userRequest := models.UserRequest{
		Method:    c.Request.Method,
		Route:     c.Request.URL.Path,
		Status:    c.Writer.Status(),
		RequestID: c.GetString(requestIDKey),
		At:        time.Now().UTC(),
	}

	request, err := json.Marshal(userRequest)
	if err != nil {
		server.Logger.Warn("Failed to encode user request", "error", err)
		return
	}

	if err := server.Cache.Write(username, request); err != nil {
		server.Logger.Warn("Failed to cache user request", "username", username, "error", err)
	}
}

// syncBook pushes the current state of isbn to the search index. Index failures are
// logged only; the in-memory catalog stays authoritative.
func (server *Server) syncBook(ctx context.Context, isbn string) {
	book, err := server.Library.BookInfo(isbn)
	if err != nil {
		return
	}

	if err := server.Index.IndexBook(ctx, book); err != nil {
		server.Logger.Warn("Failed to sync book to index", "isbn", isbn, "error", err)
	}
}

func (server *Server) unindexBook(ctx context.Context, isbn string) {
	if err := server.Index.DeleteBook(ctx, isbn); err != nil {
		server.Logger.Warn("Failed to remove book from index", "isbn", isbn, "error", err)
	}
}
