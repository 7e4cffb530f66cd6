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

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/tomoncle/membersearch"
	"github.com/tomoncle/membersearch/api"
	"github.com/tomoncle/membersearch/database"
	"github.com/tomoncle/membersearch/model"
	"github.com/tomoncle/membersearch/utils"
)

var seedDemoOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&seedDemoOnStart, "demo", false, "Seed the demo teams and members when the store is empty")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := utils.NewLogger("SERVER")

	ctx := commandContext(cmd)
	db, err := openDatabase(ctx, cfg, cfg.Database.DataMigrateConfig.EnableMigrateOnStartup)
	if err != nil {
		return err
	}
	defer func() { _ = database.CloseDB() }()

	if seedDemoOnStart {
		seeded, err := seedDemoIfEmpty(ctx, db)
		if err != nil {
			return err
		}
		if seeded {
			log.Info("Demo data seeded")
		}
	}

	gin.SetMode(cfg.Server.Mode)
	handler := api.NewHandler(membersearch.NewMemberService(), database.GetHealthStatus)
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(handler, utils.NewLogger("HTTP")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// seedDemoIfEmpty loads the demo data when the members table has no rows.
func seedDemoIfEmpty(ctx context.Context, db *bun.DB) (bool, error) {
	count, err := db.NewSelect().Model((*model.Member)(nil)).Count(ctx)
	if err != nil {
		if is, kind := database.IsSqlError(err); is && kind == database.NoTableErr {
			return false, fmt.Errorf("members table is missing, run migrate first: %w", err)
		}
		return false, fmt.Errorf("failed to count members: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if err := membersearch.SeedDemo(ctx, db); err != nil {
		return false, fmt.Errorf("failed to seed demo data: %w", err)
	}
	return true, nil
}
