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

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"sort"
	"time"

	"github.com/uptrace/bun"
)

// MigrationDebugEnv keeps the SQL log on while migrating.
const MigrationDebugEnv = "JOBLY_SQL_LOG_MIGRATION"

// Migration is an applied migration record.
type Migration struct {
	bun.BaseModel `bun:"table:jobly_migrations"`

	Version     string    `bun:"version,pk" json:"version"`
	Name        string    `bun:"name,notnull" json:"name"`
	AppliedAt   time.Time `bun:"applied_at,notnull" json:"appliedAt"`
	Description string    `bun:"description" json:"description"`
}

// MigrationFunc is a migration step executed within a transaction.
type MigrationFunc func(ctx context.Context, db bun.IDB) error

// MigrationItem describes a single migration version with up/down functions.
type MigrationItem struct {
	Version     string
	Name        string
	Description string
	Up          MigrationFunc
	Down        MigrationFunc
}

// Migrator creates the registered tables and applies seed files, recording
// each step in jobly_migrations so it runs once.
type Migrator struct {
	db     *bun.DB
	config *Config
	logger Logger
}

// NewMigrator returns a migrator for db. A nil config means DefaultConfig.
func NewMigrator(db *bun.DB, cfg *Config, logger Logger) *Migrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = GetLogger()
	}
	return &Migrator{db: db, config: cfg, logger: logger}
}

// Run creates the migration table if needed and applies every pending
// migration in ascending version order.
func (m *Migrator) Run(ctx context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not initialized")
	}
	if _, ok := os.LookupEnv(MigrationDebugEnv); !ok {
		EnableSQLSilent(true)
		defer EnableSQLSilent(false)
	}

	if err := m.createMigrationTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, migration := range m.migrations() {
		if err := m.runMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
	}

	m.logger.Info("Database migrations completed")
	return nil
}

func (m *Migrator) createMigrationTable(ctx context.Context) error {
	_, err := m.db.NewCreateTable().
		Model((*Migration)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (m *Migrator) migrations() []MigrationItem {
	migrations := []MigrationItem{
		{
			Version:     "001",
			Name:        "create_base_tables",
			Description: "Create registered tables and their foreign keys",
			Up:          m.createBaseTables,
			Down:        m.dropBaseTables,
		},
	}
	if m.config.DataInitConfig.AutoInitOnMigration {
		migrations = append(migrations, MigrationItem{
			Version:     "002",
			Name:        "seed_initial_data",
			Description: "Seed initial data from SQL files",
			Up:          m.seedInitialData,
		})
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations
}

func (m *Migrator) applied(ctx context.Context, version string) (bool, error) {
	return m.db.NewSelect().
		Model((*Migration)(nil)).
		Where("version = ?", version).
		Exists(ctx)
}

func (m *Migrator) runMigration(ctx context.Context, migration MigrationItem) error {
	exists, err := m.applied(ctx, migration.Version)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = m.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := migration.Up(ctx, tx); err != nil {
			return err
		}
		_, err := tx.NewInsert().
			Model(&Migration{
				Version:     migration.Version,
				Name:        migration.Name,
				AppliedAt:   time.Now(),
				Description: migration.Description,
			}).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}

	m.logger.Info("Migration executed successfully", "version", migration.Version, "name", migration.Name)
	return nil
}

func (m *Migrator) foreignKeys() (*ForeignKeyManager, error) {
	path := m.config.DataMigrateConfig.ForeignKeyFile
	if path == "" {
		return NewForeignKeyManager(m.logger), nil
	}
	fkm, err := NewConfigurableForeignKeyManager(m.logger, path)
	if err != nil {
		return nil, err
	}
	if errs := fkm.ValidateConstraints(); len(errs) > 0 {
		for _, e := range errs {
			m.logger.Debug("Foreign key constraint validation failed", "error", e.Error())
		}
		return nil, fmt.Errorf("foreign key constraint validation failed, %d errors in total", len(errs))
	}
	m.logger.Debug("Foreign key constraints loaded from file", "config_path", path)
	return fkm, nil
}

func (m *Migrator) createBaseTables(ctx context.Context, db bun.IDB) error {
	var fkm *ForeignKeyManager
	if m.config.DataMigrateConfig.EnableForeignKey {
		var err error
		if fkm, err = m.foreignKeys(); err != nil {
			return err
		}
		if err = CheckCreationOrder(GetRegisteredModels(), fkm.ListAllConstraints(), m.tableName); err != nil {
			return err
		}
	}

	for _, model := range RegisteredModelInstances() {
		q := db.NewCreateTable().Model(model).IfNotExists()
		if fkm != nil {
			for _, fk := range fkm.GetConstraintsByTable(m.tableName(model)) {
				clause, args := fk.Clause()
				q = q.ForeignKey(clause, args...)
			}
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %s: %w", getModelName(model), err)
		}
	}
	return nil
}

func (m *Migrator) dropBaseTables(ctx context.Context, db bun.IDB) error {
	models := RegisteredModelInstances()
	for i := len(models) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(models[i]).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", getModelName(models[i]), err)
		}
	}
	return nil
}

func (m *Migrator) seedInitialData(ctx context.Context, db bun.IDB) error {
	return m.newSeeder().Run(ctx, db)
}

func (m *Migrator) newSeeder() *SQLSeeder {
	seeder := NewSQLSeeder(m.config.DataInitConfig.Environment, m.logger)
	if m.config.DataInitConfig.Filepath != "" {
		seeder.SetSQLRootPath(m.config.DataInitConfig.Filepath)
	}
	return seeder
}

// Seed runs the seed files for the configured environment in one transaction.
func (m *Migrator) Seed(ctx context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return m.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return m.newSeeder().Run(ctx, tx)
	})
}

// GetAppliedMigrations returns migration records ordered by version.
func (m *Migrator) GetAppliedMigrations(ctx context.Context) ([]Migration, error) {
	var migrations []Migration
	err := m.db.NewSelect().
		Model(&migrations).
		Order("version ASC").
		Scan(ctx)
	return migrations, err
}

// Rollback reverts an applied migration that has a down step.
func (m *Migrator) Rollback(ctx context.Context, version string) error {
	var target *MigrationItem
	for _, item := range m.migrations() {
		if item.Version == version {
			target = &item
			break
		}
	}
	if target == nil {
		return fmt.Errorf("unknown migration version %s", version)
	}
	if target.Down == nil {
		return fmt.Errorf("migration %s cannot be rolled back", version)
	}
	exists, err := m.applied(ctx, version)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("migration %s is not applied", version)
	}

	err = m.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := target.Down(ctx, tx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*Migration)(nil)).
			Where("version = ?", version).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	m.logger.Info("Migration rolled back", "version", version, "name", target.Name)
	return nil
}

func (m *Migrator) tableName(model interface{}) string {
	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return m.db.Table(t).Name
}

func getModelName(model interface{}) string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
