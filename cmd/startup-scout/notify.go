// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/startup-scout/internal/notify"
	"github.com/pdiddy/startup-scout/internal/store"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Email the summary for a run",
	Long: `Notify emails the run summary to the configured recipients, attaching
the run's JSON report when it exists. Requires notify.sender,
notify.recipients, and the smtp-password secret. Defaults to the most
recent run.`,
	RunE: runNotify,
}

func runNotify(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	ctx := context.Background()
	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := resolveRunID(ctx, cmd, st)
	if err != nil {
		return err
	}
	run, err := st.GetRun(ctx, runID)
	if err != nil {
		return err
	}

	var attachments []string
	if run.ReportPath != "" {
		attachments = append(attachments, run.ReportPath)
	}
	return notify.Send(ctx, cfg.Notify, run, attachments, os.Stdout)
}

func init() {
	notifyCmd.Flags().String("run", "", "run ID to notify about (default: latest run)")

	rootCmd.AddCommand(notifyCmd)
}
