package history

import (
	"time"

	"hostelpass/internal/pass"
)

type RecordResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	StudentID    string `json:"student_id"`
	ScheduledOut string `json:"scheduled_out"`
	ScheduledIn  string `json:"scheduled_in"`
	ActualOut    string `json:"actual_out"`
	ActualIn     string `json:"actual_in"`
	Reason       string `json:"reason,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
	Destination  string `json:"destination"`
	Remarks      string `json:"remarks,omitempty"`
	ArchivedAt   string `json:"archived_at"`
}

func mapToResponse(kind pass.Kind, rec Record) RecordResponse {
	resp := RecordResponse{
		ID:           rec.ID.String(),
		Kind:         string(kind),
		StudentID:    rec.StudentID.String(),
		ScheduledOut: rec.ScheduledOut.UTC().Format(time.RFC3339),
		ScheduledIn:  rec.ScheduledIn.UTC().Format(time.RFC3339),
		ActualOut:    rec.ActualOut.UTC().Format(time.RFC3339),
		ActualIn:     rec.ActualIn.UTC().Format(time.RFC3339),
		Destination:  rec.Destination,
		Remarks:      rec.Remarks,
		ArchivedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
	}
	if kind == pass.KindOuting {
		resp.Purpose = rec.Reason
	} else {
		resp.Reason = rec.Reason
	}
	return resp
}

func mapToListResponse(kind pass.Kind, records []Record) []RecordResponse {
	resp := make([]RecordResponse, len(records))
	for i, rec := range records {
		resp[i] = mapToResponse(kind, rec)
	}
	return resp
}
