package repository

import (
	"github.com/duolove/duolove/internal/service"
	"github.com/duolove/duolove/utils"
	"gorm.io/gorm"
)

// Repository — долговечная реализация service.Repository поверх gorm.
type Repository struct {
	db     *gorm.DB
	logger *utils.Logger
}

var _ service.Repository = (*Repository)(nil)

func NewRepository(db *gorm.DB, logger *utils.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}
