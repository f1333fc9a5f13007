package store

import "github.com/jacentio/keystone/schema"

// Config holds configuration for the Store.
type Config struct {
	// TableName is the DynamoDB table holding all items. Required.
	TableName string

	// EmailIndex is the GSI projecting profiles by email.
	// Default: "GSI1"
	EmailIndex string

	// StatusIndex is the GSI projecting seller applications by status.
	// Default: "GSI2"
	StatusIndex string
}

// DefaultConfig returns a Config for the given table with the default index names.
func DefaultConfig(tableName string) Config {
	return Config{
		TableName:   tableName,
		EmailIndex:  schema.IndexEmail,
		StatusIndex: schema.IndexSellerStatus,
	}
}

// validate fills defaults and rejects a missing table name.
func (c *Config) validate() error {
	if c.TableName == "" {
		return ErrNoTable
	}
	if c.EmailIndex == "" {
		c.EmailIndex = schema.IndexEmail
	}
	if c.StatusIndex == "" {
		c.StatusIndex = schema.IndexSellerStatus
	}
	return nil
}
