package history

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"hostelpass/internal/pass"
)

type archiver struct {
	repo Repository
}

// NewArchiver adapts the history repository to the lifecycle engine's
// archive hook. The insert joins the caller's transaction.
func NewArchiver(repo Repository) pass.Archiver {
	return &archiver{repo: repo}
}

func (a *archiver) ArchiveWithTx(ctx context.Context, tx *sql.Tx, rec pass.ArchiveRecord) error {
	return a.repo.WithTx(tx).Insert(ctx, rec.Kind, &Record{
		ID:           uuid.New(),
		StudentID:    rec.StudentID,
		ScheduledOut: rec.ScheduledOut,
		ScheduledIn:  rec.ScheduledIn,
		ActualOut:    rec.ActualOut,
		ActualIn:     rec.ActualIn,
		Reason:       rec.Reason,
		Destination:  rec.Destination,
		Remarks:      rec.Remarks,
	})
}
