package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/edgard/newsbot/internal/audit"
	"github.com/edgard/newsbot/internal/database"
)

// newDailyDigestTask posts a summary to the target channel without anyone pressing the button.
func newDailyDigestTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", TaskDailyDigest)

	return func(ctx context.Context) error {
		requestID := audit.NewRequestID()
		channelID := deps.Config.Chat.ChannelID
		log.InfoContext(ctx, "Starting daily digest", "request_id", requestID, "channel_id", channelID)
		startTime := time.Now()

		env, err := deps.Summarizer.Generate(ctx)
		if err == nil {
			if sendErr := deps.Chat.SendEnvelope(ctx, channelID, env); sendErr != nil {
				err = fmt.Errorf("failed to send digest to channel %s: %w", channelID, sendErr)
				env = nil
			}
		}
		duration := time.Since(startTime)

		deps.Recorder.Record(ctx, audit.Entry{
			RequestID: requestID,
			Source:    database.SourceSchedule,
			ChannelID: channelID,
			Envelope:  env,
			Err:       err,
			Duration:  duration,
		})

		if err != nil {
			log.ErrorContext(ctx, "Daily digest failed", "request_id", requestID, "error", err, "duration", duration)
			return fmt.Errorf("daily digest failed: %w", err)
		}

		log.InfoContext(ctx, "Daily digest posted", "request_id", requestID, "duration", duration, "truncated", env.Truncated)
		return nil
	}
}
