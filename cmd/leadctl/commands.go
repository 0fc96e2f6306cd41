package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
	"github.com/lucifer-ux/4bitsLanding/pkg/leads"
)

// requestTimeout 单个命令的网络超时
const requestTimeout = 30 * time.Second

type options struct {
	baseURL string
	now     func() time.Time
}

func defaultBaseURL() string {
	if v := os.Getenv(config.EnvLeadsBaseURL); v != "" {
		return v
	}
	return config.Default().Endpoints.LeadsBaseURL
}

func newRootCmd() *cobra.Command {
	return buildRoot(&options{now: time.Now})
}

func buildRoot(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "leadctl",
		Short:         "Manage 4bits waitlist leads",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", defaultBaseURL(), "lead service base URL (env "+config.EnvLeadsBaseURL+")")

	root.AddCommand(
		newLoginCmd(opts),
		newSessionTokenCmd(opts),
		newFetchCmd(opts),
		newExportCmd(opts),
	)
	return root
}

func (o *options) client() (*leads.Client, error) {
	if o.baseURL == "" {
		return nil, errors.New("lead service URL is empty, set --base-url")
	}
	return leads.NewClient(o.baseURL), nil
}

func newLoginCmd(opts *options) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a dashboard token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			if err := c.Login(ctx, token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "dashboard login token")
	cmd.MarkFlagRequired("token")
	return cmd
}

func newSessionTokenCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "session-token",
		Short: "Generate a new session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			token, err := c.SessionToken(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func newFetchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Print all leads as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := opts.fetch(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all leads to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := opts.fetch(cmd.Context())
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return leads.ErrNoLeads
			}
			if out == "" {
				out = leads.ExportFileName(opts.now())
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := leads.WriteCSV(f, rows); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d leads to %s\n", len(rows), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default leads-YYYY-MM-DD.csv)")
	return cmd
}

func (o *options) fetch(ctx context.Context) ([]leads.Lead, error) {
	c, err := o.client()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	return c.Fetch(ctx)
}
