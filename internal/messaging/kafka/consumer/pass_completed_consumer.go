package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"hostelpass/internal/bootstrap"
	"hostelpass/internal/events"
)

// ConsumePassCompleted feeds completed-pass events into the operational
// audit trail. Archival itself happens transactionally on the API side;
// this stream exists for downstream systems (gate registers, mess counts).
func ConsumePassCompleted(
	ctx context.Context,
	reader *kafkago.Reader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.pass_completed")
	log.Info("pass completed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("pass completed consumer stopped")
				return
			}
			log.Error("fetch pass completed message failed", zap.Error(err))
			continue
		}

		var event events.PassCompletedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode pass_completed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		audit.Log(ctx, bootstrap.AuditLog{
			Action:  "PASS_COMPLETED",
			Message: "Student returned and pass archived",
			Meta: map[string]any{
				"kind":        event.Kind,
				"pass_id":     event.PassID,
				"student_id":  event.StudentID,
				"occurred_at": event.OccurredAt,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit pass completed message failed", zap.Error(err))
			continue
		}

		log.Info("pass completed event processed",
			zap.String("pass_id", event.PassID),
			zap.String("student_id", event.StudentID),
		)
	}
}
