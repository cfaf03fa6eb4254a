package testutil

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iyunix/go-easyemail/internal/database"
	"github.com/iyunix/go-easyemail/internal/domain"
)

// NewTestDB opens a migrated SQLite database in a temporary directory.
// The database is closed when the test finishes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}

// CreateUser inserts a user with a complete profile.
func CreateUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		Email:       email,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		PhoneCode:   StrPtr("+44"),
		PhoneNumber: StrPtr("7700900123"),
		Company:     StrPtr("Analytical Engines"),
		WorkTitle:   StrPtr("Engineer"),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

// CreateContact inserts a contact and links it to the user.
func CreateContact(t *testing.T, db *gorm.DB, userID uint, contact *domain.Contact) *domain.Contact {
	t.Helper()

	if err := db.Create(contact).Error; err != nil {
		t.Fatalf("Failed to create contact: %v", err)
	}
	if userID != 0 {
		if err := db.Create(&domain.UserContact{UserID: userID, ContactID: contact.ID}).Error; err != nil {
			t.Fatalf("Failed to link contact: %v", err)
		}
	}
	return contact
}
