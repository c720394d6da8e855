// Package main is the entry point for the versus fight server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/versus-api/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "versus",
	Short: "Versus fight server",
	Long:  `Versus pits two characters against each other and asks Gemini who wins.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
