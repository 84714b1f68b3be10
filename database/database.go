package database

import (
	"fmt"
	"path"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var _ DB = (*Client)(nil) // Ensure Client implements DB

// Client wraps the gorm.DB instance.
type Client struct {
	db *gorm.DB
}

// New creates a new database connection and performs migrations.
func New(dbpath string) (*Client, error) {
	db, err := gorm.Open(sqlite.Open(path.Join(dbpath, "yurei.db")), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	client := &Client{db: db}
	if err := client.Migrate(); err != nil {
		return nil, err
	}
	return client, nil
}

// NewMemory creates an in-memory database, used by tests. The connection
// pool is capped at one connection: every pooled connection to :memory:
// would otherwise see its own empty database.
func NewMemory() (*Client, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	client := &Client{db: db}
	if err := client.Migrate(); err != nil {
		return nil, err
	}
	return client, nil
}

// Migrate runs the schema migrations.
func (c *Client) Migrate() error {
	if err := c.db.AutoMigrate(
		&User{},
		&Category{},
		&Nominee{},
		&Vote{},
		&VotingPeriod{},
		&Achievement{},
		&UserAchievement{},
		&Announcement{},
		&AnnouncementDismissal{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
