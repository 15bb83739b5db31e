package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"muru-backend/internal/database"
	"muru-backend/internal/model"
	"muru-backend/internal/repository"
)

func init() {
	DBCommand.AddCommand(&DBCheckCommand)
	RootCmd.AddCommand(&DBCommand)
}

var DBCommand = cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
	Long:  "Database maintenance",
}

var DBCheckCommand = cobra.Command{
	Use:   "check",
	Short: "Ping the database and print row counts",
	Long:  "Ping the database and print row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepos(func(db *gorm.DB, _ *repository.Repositories) error {
			return checkDB(cmd.Context(), db, cmd.OutOrStdout())
		})
	},
}

func checkDB(ctx context.Context, db *gorm.DB, out io.Writer) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := database.Ping(pingCtx, db); err != nil {
		return err
	}
	fmt.Fprintln(out, "✅ database reachable")

	var version string
	if err := db.WithContext(ctx).Raw("SELECT version()").Scan(&version).Error; err == nil {
		fmt.Fprintf(out, "📦 %s\n", version)
	}

	for _, m := range model.AllModels() {
		var count int64
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return fmt.Errorf("parse model: %w", err)
		}
		if err := db.WithContext(ctx).Model(m).Count(&count).Error; err != nil {
			return fmt.Errorf("count %s: %w", stmt.Schema.Table, err)
		}
		fmt.Fprintf(out, "%-10s %d\n", stmt.Schema.Table, count)
	}
	return nil
}
