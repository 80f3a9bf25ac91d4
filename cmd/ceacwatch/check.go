package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ceacwatch/internal/notify"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one check-and-maybe-notify cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.close()

			rep, err := app.runner.RunCycle(cmd.Context())
			if err != nil {
				return err
			}
			if !rep.Result.Success {
				color.Red("query failed: %s", rep.Result.Error)
				return errors.New(rep.Result.Error)
			}

			color.Green("%s: %s", rep.Result.CaseNumberRequested, rep.Result.Status)
			fmt.Println(notify.Enrich(rep.Result, time.Now()).MessageText)
			if rep.Notified {
				color.Cyan("notification dispatched (%s)", rep.Decision.Reason)
			} else {
				color.Yellow("no notification (%s)", rep.Decision.Reason)
			}
			return nil
		},
	}
}
