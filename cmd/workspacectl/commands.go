package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"eventdesk/internal/app"
	"eventdesk/internal/domain/services"
	"eventdesk/internal/repository/postgres"
	"eventdesk/internal/seed"
)

func newSeedCmd(g *globals) *cobra.Command {
	var (
		userID string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo workspace for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repos, err := app.OpenRepositories(ctx, g.cfg, g.logger)
			if err != nil {
				return err
			}
			defer repos.Close()

			core, err := app.NewCore(repos, g.cfg, nil, g.logger)
			if err != nil {
				return err
			}
			res, err := seed.NewSeeder(core.Workspace, g.logger).Seed(ctx, userID, force)
			if err != nil {
				return err
			}
			if res.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "workspace already has folders; use --force to seed anyway")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d items for %s\n", res.Items, userID)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID to seed (required)")
	cmd.Flags().BoolVar(&force, "force", false, "seed even if the workspace is not empty")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newReportCmd(g *globals) *cobra.Command {
	var (
		userID  string
		folder  string
		title   string
		pdfPath string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the report pipeline and print the HTML or write a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repos, err := app.OpenRepositories(ctx, g.cfg, g.logger)
			if err != nil {
				return err
			}
			defer repos.Close()

			core, err := app.NewCore(repos, g.cfg, nil, g.logger)
			if err != nil {
				return err
			}

			req := &services.GenerateReportRequest{FolderRef: folder, Title: title}
			if pdfPath == "" {
				result, err := core.Reports.Generate(ctx, userID, req)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), result.HTML)
				return err
			}

			pdf, err := core.Reports.GeneratePDF(ctx, userID, req)
			if err != nil {
				return err
			}
			if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", pdfPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", pdfPath, len(pdf))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID (required)")
	cmd.Flags().StringVar(&folder, "folder", "", "folder ID or slash path; empty for the whole workspace")
	cmd.Flags().StringVar(&title, "title", "", "report title")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write a PDF to this path instead of printing HTML")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newDropTablesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "drop-tables",
		Short: "Drop every workspace table for the configured prefix (dev/test only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			// SAFETY: Prevent destructive operations in production
			if g.cfg.Environment == "prod" {
				return errors.New("refusing to drop tables in prod")
			}
			if g.cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}

			ctx := cmd.Context()
			pool, err := postgres.CreateConnectionPool(ctx, g.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			dropped, err := postgres.DropAll(ctx, pool, postgres.NewTableNames(g.cfg.TablePrefix))
			for _, t := range dropped {
				fmt.Fprintln(cmd.OutOrStdout(), "dropped", t)
			}
			return err
		},
	}
}
