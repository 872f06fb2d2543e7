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

// Package cli wires the jobly commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tomoncle/jobly"
	"github.com/tomoncle/jobly/auth"
	"github.com/tomoncle/jobly/config"
	"github.com/tomoncle/jobly/database"
	"github.com/tomoncle/jobly/models"
	"github.com/tomoncle/jobly/server"
	"github.com/tomoncle/jobly/utils"
	"github.com/uptrace/bun"
)

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

type rootOptions struct {
	configPath string
}

func NewRootCommand(out io.Writer, build BuildInfo) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "jobly",
		Short:         "Jobly job board API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default $"+config.PathEnv+")")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(out, opts))
	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newAdminCommand(out, opts))
	cmd.AddCommand(newVersionCommand(out, build))
	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyLogging()
	return cfg, nil
}

// openDB connects the global database for one-shot commands. Migrations run
// only when migrate is set and startup seeding is left to serve.
func openDB(ctx context.Context, cfg *config.Config, migrate bool) (*bun.DB, error) {
	dbCfg := cfg.Database
	dbCfg.DataMigrateConfig.EnableMigrateOnStartup = migrate
	dbCfg.DataInitConfig.AutoInitOnStartup = false
	return database.InitDB(ctx, &dbCfg)
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := database.InitDB(ctx, &cfg.Database)
			if err != nil {
				return err
			}
			defer database.CloseDB()

			return serve(ctx, cfg, db)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, db bun.IDB) error {
	log := utils.NewLogger("SERVER")
	handler := server.New(server.Options{
		Companies: jobly.NewCompanyService(db),
		Jobs:      jobly.NewJobService(db),
		Users:     jobly.NewUserService(db, cfg.Server.BcryptCost),
		Tokens:    auth.NewTokens(cfg.Server.SecretKey, cfg.Server.TokenTTL),
	})
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newMigrateCommand(out io.Writer, opts *rootOptions) *cobra.Command {
	var rollback string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := openDB(ctx, cfg, rollback == "")
			if err != nil {
				return err
			}
			defer database.CloseDB()

			migrator := database.NewMigrator(db, &cfg.Database, database.GetLogger())
			if rollback != "" {
				if err := migrator.Rollback(ctx, rollback); err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "rolled back %s\n", rollback)
				return err
			}

			applied, err := migrator.GetAppliedMigrations(ctx)
			if err != nil {
				return err
			}
			for _, m := range applied {
				if _, err := fmt.Fprintf(out, "%s %s\n", m.Version, m.Name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rollback, "rollback", "", "revert the applied migration with this version")
	return cmd
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the SQL seed files for the configured environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer database.CloseDB()
			return database.NewMigrator(db, &cfg.Database, database.GetLogger()).Seed(cmd.Context())
		},
	}
}

func newAdminCommand(out io.Writer, opts *rootOptions) *cobra.Command {
	in := &models.NewUser{IsAdmin: true}
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create an admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer database.CloseDB()

			u, err := jobly.NewUserService(db, cfg.Server.BcryptCost).Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "created admin %s\n", u.Username)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Username, "username", "", "username")
	f.StringVar(&in.Password, "password", "", "password")
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Email, "email", "", "email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newVersionCommand(out io.Writer, build BuildInfo) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(build)
			}
			_, err := fmt.Fprintf(out, "version=%s commit=%s build_time=%s\n", build.Version, build.Commit, build.BuildTime)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version as JSON")
	return cmd
}
