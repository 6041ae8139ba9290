package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/budjet/internal/cli"
	"github.com/Veraticus/budjet/internal/config"
	"github.com/Veraticus/budjet/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
		Long:  `Authenticate with external services such as Google Sheets.`,
	}

	cmd.AddCommand(authSheetsCmd(v))
	return cmd
}

func authSheetsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Print a Google sign-in link and wait for the redirect on localhost
2. Save the token next to your config file for "budjet export"

You'll need to run this once to set up Google Sheets export.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			clientID := v.GetString("sheets.client_id")
			clientSecret := v.GetString("sheets.client_secret")

			if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
				clientID = flagID
			}
			if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
				clientSecret = flagSecret
			}

			if clientID == "" {
				clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
			}
			if clientSecret == "" {
				clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
			}

			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("OAuth2 credentials not found. Please set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret flags")
			}

			tokenFile := config.SheetsTokenPath()
			callback, _ := cmd.Flags().GetString("callback")
			slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

			token, err := sheets.GetOrCreateToken(ctx, sheets.OAuth2Config{
				Out:          cmd.OutOrStdout(),
				ClientID:     clientID,
				ClientSecret: clientSecret,
				TokenFile:    tokenFile,
				CallbackAddr: callback,
			})
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess("Google Sheets authentication complete"))
			if token.RefreshToken == "" {
				fmt.Fprintln(out, cli.FormatWarning("Google returned no refresh token; revoke access and run this command again"))
			}
			return nil
		},
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback", sheets.DefaultCallbackAddr, "host:port to receive the OAuth2 redirect on")

	return cmd
}
