// Package client provides test commands for the versus HTTP API
package client

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the versus API",
	Long:  `Client commands allow you to test the versus API by making real HTTP requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "http://localhost:8080", "server base URL")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 90*time.Second, "request timeout")

	ClientCmd.AddCommand(fightCmd)
}

// newHTTPClient creates a resty client pointed at the server
func newHTTPClient() *resty.Client {
	return resty.New().
		SetBaseURL(serverAddr).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}
