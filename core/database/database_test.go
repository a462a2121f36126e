package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "corescan",
			TimeoutSeconds: 1,
		}

		// Connect should fail (timeout or refused)
		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("SQLite In-Memory", func(t *testing.T) {
		cfg := Config{
			Driver: "sqlite",
			Name:   ":memory:",
		}

		db, err := Connect(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, db)
	})
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)

	err = db.Exec("CREATE TABLE batches (id INTEGER PRIMARY KEY, hole_id TEXT, machine TEXT)").Error
	assert.NoError(t, err)

	missing, err := MissingColumns(db, "batches", []string{"id", "hole_id", "machine", "depth_from"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"depth_from"}, missing)

	missing, err = MissingColumns(db, "batches", []string{"id", "hole_id"})
	assert.NoError(t, err)
	assert.Empty(t, missing)
}
