package bootstrap

import "context"

// AuditLog is a single operational audit entry (server lifecycle, completed
// passes). Domain errors are not audit events.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
