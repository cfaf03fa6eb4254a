package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-easyemail/internal/config"
	"github.com/iyunix/go-easyemail/internal/domain"
)

func TestOpenSQLiteMigratesSchema(t *testing.T) {
	cfg := &config.Config{
		DatabaseType: "sqlite",
		DatabasePath: filepath.Join(t.TempDir(), "test.db"),
	}

	db, err := Open(cfg)
	require.NoError(t, err)

	for _, model := range []interface{}{
		&domain.User{}, &domain.Contact{}, &domain.UserContact{},
		&domain.Credential{}, &domain.Chat{}, &domain.Message{},
	} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestOpenRejectsUnknownDatabase(t *testing.T) {
	_, err := Open(&config.Config{DatabaseType: "mysql"})
	assert.Error(t, err)
}

func TestOpenPostgresRequiresURL(t *testing.T) {
	_, err := Open(&config.Config{DatabaseType: "postgres"})
	assert.ErrorContains(t, err, "DATABASE_URL")
}
