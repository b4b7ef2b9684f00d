package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "walletd-cli",
		Short: "Wallet service CLI tool",
		Long:  `A command line interface for interacting with the wallet service API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the wallet service API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("WALLETD_TOKEN"), "Bearer token for authenticated endpoints")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that the clearing balance matches the customer total",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(ledgerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkConsistency() {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/ledger/consistency", nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Consistent       bool   `json:"consistent"`
			ClearingBalance  string `json:"clearing_balance"`
			CustomersBalance string `json:"customers_balance"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		fmt.Printf("Failed to parse response (Status: %d): %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	if resp.StatusCode != http.StatusOK || !envelope.Data.Consistent {
		fmt.Printf("Consistency check FAILED (Status: %d)\n", resp.StatusCode)
		fmt.Printf("Clearing balance:  %s\n", envelope.Data.ClearingBalance)
		fmt.Printf("Customers balance: %s\n", envelope.Data.CustomersBalance)
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
	fmt.Printf("Clearing balance:  %s\n", envelope.Data.ClearingBalance)
	fmt.Printf("Customers balance: %s\n", envelope.Data.CustomersBalance)
}
