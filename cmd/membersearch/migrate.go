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

	"github.com/spf13/cobra"

	"github.com/tomoncle/membersearch"
	"github.com/tomoncle/membersearch/database"
	"github.com/tomoncle/membersearch/utils"
)

var seedDemo bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tables and indexes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := openDatabase(commandContext(cmd), cfg, true); err != nil {
			return err
		}
		defer func() { _ = database.CloseDB() }()
		utils.NewLogger("SERVER").Info("Migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the SQL seed files, or the demo data with --demo",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		db, err := openDatabase(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer func() { _ = database.CloseDB() }()

		if seedDemo {
			return membersearch.SeedDemo(ctx, db)
		}
		return database.InitData(ctx)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "Insert the demo teams and members")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
