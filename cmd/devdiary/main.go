package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmorales/devdiary/internal/config"
	"github.com/jmorales/devdiary/internal/db"
	"github.com/jmorales/devdiary/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "devdiary",
	Short: "Daily progress journal for your linked repositories",
	Long:  `Devdiary aggregates each day's commits per project into reviewable, annotated progress entries and presents them as a timeline.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		database, err := db.Open()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		// First-time setup runs migrations without user interaction
		status, _ := db.GetMigrationStatus()
		if status != nil && (status.CurrentVersion == 0 || status.Pending) {
			if err := db.RunMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Error running migrations: %v\n", err)
				os.Exit(1)
			}
		}

		if err := tui.Run(database, cfg); err != nil {
			logError(err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var migrateCmd = &cobra.Command{
	Use:    "migrate",
	Short:  "Show migration status and apply pending migrations",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := db.Open(); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		status, err := db.GetMigrationStatus()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading migration status: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Current version: %d\n", status.CurrentVersion)
		fmt.Printf("Latest version:  %d\n", status.LatestVersion)
		if status.Dirty {
			fmt.Println("State: dirty")
		}

		if !status.Pending {
			fmt.Println("Up to date.")
			return
		}

		if err := db.RunMigrations(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running migrations: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations applied.")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func logError(err error) {
	logPath, pathErr := config.ErrorLogPath()
	if pathErr != nil {
		return
	}

	if err := config.EnsureDirectories(); err != nil {
		return
	}

	f, fileErr := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if fileErr != nil {
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "[%s] %v\n", "tui", err)
}
