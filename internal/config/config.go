// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/jacentio/keystone/store"
	"github.com/jacentio/keystone/trigger"
)

// ErrNoTable is returned when neither USER_TABLE nor TABLE_NAME is set.
var ErrNoTable = errors.New("config: USER_TABLE or TABLE_NAME must be set")

// Config is the process configuration, parsed once at startup.
type Config struct {
	UserTable string `env:"USER_TABLE"`
	TableName string `env:"TABLE_NAME"`

	AWSRegion        string `env:"AWS_REGION"            envDefault:"us-west-2"`
	DynamoDBEndpoint string `env:"DYNAMODB_ENDPOINT"`
	AWSAccessKeyID   string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey     string `env:"AWS_SECRET_ACCESS_KEY"`

	EmailIndex  string `env:"GSI1_NAME" envDefault:"GSI1"`
	StatusIndex string `env:"GSI2_NAME" envDefault:"GSI2"`

	LogLevel      string `env:"LOG_LEVEL"      envDefault:"info"`
	FailurePolicy string `env:"FAILURE_POLICY" envDefault:"best_effort"`
}

// Load parses the environment and checks that a table is named.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Table(); err != nil {
		return nil, err
	}
	if _, err := cfg.Policy(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Table returns USER_TABLE, falling back to TABLE_NAME.
func (c *Config) Table() (string, error) {
	switch {
	case c.UserTable != "":
		return c.UserTable, nil
	case c.TableName != "":
		return c.TableName, nil
	default:
		return "", ErrNoTable
	}
}

// StoreConfig returns the record store configuration.
func (c *Config) StoreConfig() (store.Config, error) {
	table, err := c.Table()
	if err != nil {
		return store.Config{}, err
	}
	sc := store.DefaultConfig(table)
	if c.EmailIndex != "" {
		sc.EmailIndex = c.EmailIndex
	}
	if c.StatusIndex != "" {
		sc.StatusIndex = c.StatusIndex
	}
	return sc, nil
}

// Policy returns the parsed FAILURE_POLICY.
func (c *Config) Policy() (trigger.FailurePolicy, error) {
	return trigger.ParsePolicy(c.FailurePolicy)
}
