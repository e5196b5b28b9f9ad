package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/propledger/propledger/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "propledger-cli",
		Short: "PropLedger CLI tool",
		Long:  `A command line interface for the PropLedger property accounting API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the PropLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Reporting operations",
	}

	trialBalanceCmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Fetch the trial balance and verify debits equal credits",
		Run: func(cmd *cobra.Command, args []string) {
			trialBalance()
		},
	}

	agedCmd := &cobra.Command{
		Use:   "aged-receivables",
		Short: "Fetch outstanding receivables bucketed by age",
		Run: func(cmd *cobra.Command, args []string) {
			agedReceivables()
		},
	}

	reportCmd.AddCommand(trialBalanceCmd, agedCmd)
	rootCmd.AddCommand(reportCmd)

	transfersCmd := &cobra.Command{
		Use:   "transfers",
		Short: "Transfer operations",
	}

	var maxAgeDays int
	agedTransfersCmd := &cobra.Command{
		Use:   "aged",
		Short: "List pending transfers older than the cutoff",
		Run: func(cmd *cobra.Command, args []string) {
			agedTransfers(maxAgeDays)
		},
	}
	agedTransfersCmd.Flags().IntVar(&maxAgeDays, "max-age-days", 7, "Age cutoff in days")

	transfersCmd.AddCommand(agedTransfersCmd)
	rootCmd.AddCommand(transfersCmd)

	var databaseURL, migrationsPath string
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	migrateCmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "migrations", "migrations", "Path to migration files")

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			if err := postgres.RunMigrations(databaseURL, migrationsPath); err != nil {
				fmt.Printf("Migration failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Migrations applied")
		},
	}

	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Run: func(cmd *cobra.Command, args []string) {
			if err := postgres.RunMigrationsDown(databaseURL, migrationsPath); err != nil {
				fmt.Printf("Rollback failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Rollback complete")
		},
	}

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) (map[string]any, []byte, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, body, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		// Some endpoints return arrays; hand the raw body back.
		return nil, body, nil
	}
	return result, body, nil
}

func trialBalance() {
	result, _, err := get("/api/v1/reports/trial-balance")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Trial balance as of %v\n", result["as_of"])
	fmt.Printf("Total debits:  %v\n", result["total_debits"])
	fmt.Printf("Total credits: %v\n", result["total_credits"])

	if balanced, ok := result["balanced"].(bool); ok && balanced {
		fmt.Println("Ledger is BALANCED")
		return
	}
	fmt.Println("Ledger is OUT OF BALANCE")
	os.Exit(1)
}

func agedReceivables() {
	_, body, err := get("/api/v1/reports/aged-receivables")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(rows) == 0 {
		fmt.Println("No outstanding receivables")
		return
	}

	for _, row := range rows {
		fmt.Printf("lease=%v outstanding=%v buckets=%v\n", row["lease_id"], row["outstanding"], row["buckets"])
	}
}

func agedTransfers(maxAgeDays int) {
	_, body, err := get(fmt.Sprintf("/api/v1/transfers?aged=true&max_age_days=%d", maxAgeDays))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(rows) == 0 {
		fmt.Printf("No pending transfers older than %d days\n", maxAgeDays)
		return
	}

	fmt.Printf("%d aged pending transfers:\n", len(rows))
	for _, row := range rows {
		fmt.Printf("id=%v lease=%v amount=%v initiated_at=%v\n", row["id"], row["lease_id"], row["amount"], row["initiated_at"])
	}
}
