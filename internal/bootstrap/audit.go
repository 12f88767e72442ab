package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records lifecycle events that operators need to see even when
// request logging is turned down.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
