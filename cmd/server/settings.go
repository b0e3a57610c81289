package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"favorites/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect settings files",
}

var settingsCheckCmd = &cobra.Command{
	Use:     "check <file>",
	Short:   "Validate a settings YAML file and print the effective settings",
	Example: `  favorites settings check ./favorites.yaml`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSettingsCheck,
}

var hashTokenCmd = &cobra.Command{
	Use:   "hash-token <token>",
	Short: "Print the bcrypt hash of an admin token for FAVORITES_ADMIN_TOKEN_HASH",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashToken,
}

func init() {
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(hashTokenCmd)
}

func runSettingsCheck(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	doc, err := settings.Parse(data)
	if err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func runHashToken(cmd *cobra.Command, args []string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing token: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
	return err
}
