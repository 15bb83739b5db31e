package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"muru-backend/internal/config"
	"muru-backend/internal/database"
	"muru-backend/internal/logger"
	"muru-backend/internal/repository"
	"muru-backend/internal/repository/postgres"
)

var (
	// flags
	verbose bool
	env     string

	// logger
	logr *logrus.Logger
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose mode")
	RootCmd.PersistentFlags().StringVar(&env, "env", "dev", "environment")
}

var RootCmd = cobra.Command{
	Use:          "muru-manage",
	Short:        "Maintenance commands for the Muru backend",
	Long:         "Maintenance commands for the Muru backend. Only the DB_* settings are required.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "info"
		if verbose {
			level = "debug"
		}
		logr = logger.New(env, level)
	},
}

// openDB DB_* 환경 변수로 연결
func openDB() (*gorm.DB, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}

	db, err := database.ConnectDB(*cfg, logr)
	if err != nil {
		return nil, fmt.Errorf("error opening db: %w", err)
	}
	logr.Debugf("connected to %s:%s/%s", cfg.Host, cfg.Port, cfg.DBName)
	return db, nil
}

// withRepos 연결을 열고 fn 실행 후 닫음
func withRepos(fn func(db *gorm.DB, repos *repository.Repositories) error) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	return fn(db, postgres.New(db))
}
