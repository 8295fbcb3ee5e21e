package database

import (
	"gorm.io/gorm"

	"github.com/kojiurata-bit/reading-tracker/internal/entities"
)

// CreateBook inserts a new book record.
func (d *Database) CreateBook(book *entities.Book) error {
	return d.DB.Create(book).Error
}

// GetBookByID retrieves a book by its ID.
func (d *Database) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := d.DB.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAllBooks retrieves all book records ordered by creation time.
func (d *Database) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := d.DB.Order("created_at ASC, id ASC").Find(&books).Error
	return books, err
}

// PatchBook applies a column-level update to a book and returns the
// refreshed record. The updated_at column advances automatically.
func (d *Database) PatchBook(id uint, fields map[string]any) (*entities.Book, error) {
	result := d.DB.Model(&entities.Book{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return d.GetBookByID(id)
}

// DeleteBook removes a book record.
func (d *Database) DeleteBook(id uint) error {
	result := d.DB.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
