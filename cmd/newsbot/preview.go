package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgard/newsbot/internal/audit"
	"github.com/edgard/newsbot/internal/database"
	"github.com/edgard/newsbot/internal/news"
)

func newPreviewCmd(configPath *string) *cobra.Command {
	var promptOnly bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Generate one summary and print it without connecting to the chat platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if promptOnly {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), a.workflow.Prompt(time.Now()))
				return err
			}

			recorder := audit.NewRecorder(a.store, nil, a.cfg.Chat.Platform, a.log)
			requestID := audit.NewRequestID()
			startTime := time.Now()

			env, err := a.workflow.Generate(ctx)
			recorder.Record(ctx, audit.Entry{
				RequestID: requestID,
				Source:    database.SourcePreview,
				Envelope:  env,
				Err:       err,
				Duration:  time.Since(startTime),
			})
			if err != nil {
				a.log.Error("Failed to generate preview", "request_id", requestID, "error", err)
				return err
			}

			return printEnvelope(cmd.OutOrStdout(), env)
		},
	}
	cmd.Flags().BoolVar(&promptOnly, "prompt-only", false, "Print the prompt for today instead of calling the model")

	return cmd
}

func printEnvelope(w io.Writer, env *news.Envelope) error {
	_, err := fmt.Fprintf(w, "%s\n\n%s\n\n%s • %s\n",
		env.Title,
		env.Description,
		env.Footer,
		env.Timestamp.Format(time.RFC1123),
	)
	return err
}
