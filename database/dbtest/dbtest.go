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

// Package dbtest opens throwaway sqlite databases with every registered
// model migrated, for use in tests.
package dbtest

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/jobly/database"
	"github.com/tomoncle/jobly/utils"
	"github.com/uptrace/bun"
)

// Config returns a sqlite in-memory config private to one test.
func Config() *database.Config {
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = fmt.Sprintf("file:jobly_%s?mode=memory&cache=shared", uuid.NewString())
	cfg.ConnectionConfig.HealthCheckInterval = 0
	cfg.ConnectionConfig.SlowQueryTime = 0
	cfg.DataInitConfig.AutoInitOnMigration = false
	return cfg
}

// New connects a fresh database, migrates it and closes it when t ends.
func New(t testing.TB) *bun.DB {
	t.Helper()
	utils.ConfigureLogOutput(io.Discard)

	ctx := context.Background()
	manager := database.NewDatabaseManager(Config())
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { _ = manager.Disconnect() })
	require.NoError(t, manager.RunMigrations(ctx))
	return manager.GetDB()
}
