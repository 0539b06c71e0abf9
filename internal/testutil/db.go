package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/duolove/duolove/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq int64

// SetupTestDB поднимает in-memory sqlite со схемой серверных реестров.
// Имя базы уникально на вызов: cache=shared нужен, чтобы все соединения
// пула видели одну и ту же память, но базы разных тестов не пересекались.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:registry_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.ReferralCode{},
		&models.ReferralConnection{},
		&models.Partnership{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}
	})

	return gdb
}
