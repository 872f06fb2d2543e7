/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads the jobly YAML configuration and applies defaults
// and environment overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/tomoncle/jobly/database"
	"github.com/tomoncle/jobly/utils"
	"gopkg.in/yaml.v3"
)

const (
	// PathEnv names the config file when --config is not given.
	PathEnv = "JOBLY_CONFIG"

	DefaultAddr       = ":3001"
	DefaultTokenTTL   = 24 * time.Hour
	DefaultBcryptCost = 12
	// devSecretKey is only used when no secret is configured.
	devSecretKey      = "secret-dev"
)

type Server struct {
	Addr            string        `yaml:"addr"`
	SecretKey       string        `yaml:"secret_key"`
	// TokenTTL defaults to 24h when absent; an explicit 0 issues tokens that never expire.
	TokenTTL        time.Duration `yaml:"token_ttl"`
	BcryptCost      int           `yaml:"bcrypt_cost"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
	// Dir enables daily log files under this directory.
	Dir        string `yaml:"dir"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type Config struct {
	Server   Server          `yaml:"server"`
	Logging  Logging         `yaml:"logging"`
	Database database.Config `yaml:"database"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:            DefaultAddr,
			SecretKey:       devSecretKey,
			TokenTTL:        DefaultTokenTTL,
			BcryptCost:      DefaultBcryptCost,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: Logging{
			Level:      "info",
			Format:     "text",
			MaxAgeDays: 7,
		},
		Database: *database.DefaultConfig(),
	}
}

// Load reads path, or the file named by JOBLY_CONFIG when path is empty.
// Without either the defaults are used. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(PathEnv)
	}
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// applyDefaults fills values a partial file left empty.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.SecretKey == "" {
		c.Server.SecretKey = def.Server.SecretKey
	}
	if c.Server.BcryptCost == 0 {
		c.Server.BcryptCost = def.Server.BcryptCost
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}

	db, defDB := &c.Database, def.Database
	if db.ConnectionConfig.Type == "" {
		db.ConnectionConfig.Type = defDB.ConnectionConfig.Type
	}
	if db.DataInitConfig.Filepath == "" {
		db.DataInitConfig.Filepath = defDB.DataInitConfig.Filepath
	}
	if db.DataInitConfig.Environment == "" {
		db.DataInitConfig.Environment = defDB.DataInitConfig.Environment
	}
}

func (c *Config) applyEnv() {
	c.Server.Addr = utils.EnvDefaultString("JOBLY_ADDR", c.Server.Addr)
	c.Server.SecretKey = utils.EnvDefaultString("JOBLY_SECRET_KEY", c.Server.SecretKey)
	c.Server.TokenTTL = utils.EnvDefaultDuration("JOBLY_TOKEN_TTL", c.Server.TokenTTL)
	c.Server.BcryptCost = utils.EnvDefaultInt("JOBLY_BCRYPT_COST", c.Server.BcryptCost)
	c.Logging.Level = utils.EnvDefaultString("JOBLY_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = utils.EnvDefaultString("JOBLY_LOG_FORMAT", c.Logging.Format)
	c.Database.DataInitConfig.Environment = utils.EnvDefaultString("JOBLY_ENV", c.Database.DataInitConfig.Environment)
	database.OverrideFromEnv(&c.Database.ConnectionConfig)
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.SecretKey == "" {
		return fmt.Errorf("server.secret_key is required")
	}
	if c.Server.TokenTTL < 0 {
		return fmt.Errorf("server.token_ttl cannot be negative")
	}
	if c.Server.BcryptCost < 4 || c.Server.BcryptCost > 31 {
		return fmt.Errorf("server.bcrypt_cost must be between 4 and 31, got %d", c.Server.BcryptCost)
	}
	return nil
}

// ApplyLogging configures the shared loggers.
func (c *Config) ApplyLogging() {
	utils.ConfigureLogLevel(c.Logging.Level)
	utils.ConfigureLogFormat(c.Logging.Format)
	if c.Logging.Dir != "" {
		utils.ConfigureFileLog(c.Logging.Dir, c.Logging.MaxAgeDays)
	}
}
