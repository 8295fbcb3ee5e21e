package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kojiurata-bit/reading-tracker/internal/entities"
	"github.com/kojiurata-bit/reading-tracker/internal/metadata"
)

// BookStore is the record access the books API needs.
type BookStore interface {
	CreateBook(book *entities.Book) error
	GetBookByID(id uint) (*entities.Book, error)
	GetAllBooks() ([]entities.Book, error)
	PatchBook(id uint, fields map[string]any) (*entities.Book, error)
	DeleteBook(id uint) error
}

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{
		store: store,
	}
}

// CreateBookRequest is the request body for creating a book record.
type CreateBookRequest struct {
	Title         string     `json:"title" binding:"required"`
	Author        string     `json:"author"`
	Genre         string     `json:"genre"`
	PublishedDate string     `json:"published_date"`
	PageCount     int        `json:"page_count"`
	Rating        int        `json:"rating"`
	Memo          string     `json:"memo"`
	Description   string     `json:"description"`
	Thumbnail     string     `json:"thumbnail"`
	PurchaseURL   string     `json:"purchase_url"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// UpdateBookRequest is the request body for PATCH updates. Nil fields are
// left untouched.
type UpdateBookRequest struct {
	Title         *string    `json:"title"`
	Author        *string    `json:"author"`
	Genre         *string    `json:"genre"`
	PublishedDate *string    `json:"published_date"`
	PageCount     *int       `json:"page_count"`
	Rating        *int       `json:"rating"`
	Memo          *string    `json:"memo"`
	Description   *string    `json:"description"`
	Thumbnail     *string    `json:"thumbnail"`
	PurchaseURL   *string    `json:"purchase_url"`
	CompletedAt   *time.Time `json:"completed_at"`
}

func (controller *BooksController) GetAllBooks(c *gin.Context) {
	books, err := controller.store.GetAllBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.store.GetBookByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title is required")
		return
	}
	if !validRating(c, req.Rating) || !validGenre(c, req.Genre) {
		return
	}

	book := entities.Book{
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Rating:        req.Rating,
		Memo:          req.Memo,
		Description:   req.Description,
		Thumbnail:     req.Thumbnail,
		PurchaseURL:   req.PurchaseURL,
		CompletedAt:   req.CompletedAt,
	}
	if err := controller.store.CreateBook(&book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, book)
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Rating != nil && !validRating(c, *req.Rating) {
		return
	}
	if req.Genre != nil && !validGenre(c, *req.Genre) {
		return
	}
	if req.Title != nil && *req.Title == "" {
		respondBadRequest(c, "title cannot be empty")
		return
	}

	fields := updateFields(&req)
	if len(fields) == 0 {
		respondBadRequest(c, "no fields to update")
		return
	}

	book, err := controller.store.PatchBook(id, fields)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "update book")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.store.DeleteBook(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	respondSuccess(c, "book deleted")
}

// updateFields converts the set request fields into a column map for a
// partial update.
func updateFields(req *UpdateBookRequest) map[string]any {
	fields := make(map[string]any)
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Author != nil {
		fields["author"] = *req.Author
	}
	if req.Genre != nil {
		fields["genre"] = *req.Genre
	}
	if req.PublishedDate != nil {
		fields["published_date"] = *req.PublishedDate
	}
	if req.PageCount != nil {
		fields["page_count"] = *req.PageCount
	}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if req.Memo != nil {
		fields["memo"] = *req.Memo
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Thumbnail != nil {
		fields["thumbnail"] = *req.Thumbnail
	}
	if req.PurchaseURL != nil {
		fields["purchase_url"] = *req.PurchaseURL
	}
	if req.CompletedAt != nil {
		fields["completed_at"] = *req.CompletedAt
	}
	return fields
}

// validRating responds with a 400 and returns false when the rating is out
// of the 0-5 range (0 = unrated).
func validRating(c *gin.Context, rating int) bool {
	if rating < 0 || rating > 5 {
		respondBadRequest(c, "rating must be between 0 and 5")
		return false
	}
	return true
}

// validGenre responds with a 400 and returns false when the genre is
// neither empty nor a known label.
func validGenre(c *gin.Context, genre string) bool {
	if genre == "" || metadata.IsGenreLabel(genre) {
		return true
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   fmt.Sprintf("unknown genre %q", genre),
		Details: gin.H{"known_genres": metadata.GenreLabels()},
	})
	return false
}
