package shared

// Asynq task types. Grouped by domain so queue dashboards stay readable.
const (
	TypeDeletePortraits = "character:delete_portraits"
	TypeReconcileStats  = "stats:reconcile_counters"
)

// Queue names with their priorities configured in the worker.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// DeletePortraitsPayload identifies a deleted character whose portrait
// objects (stored under portraits/<character_id>/) must be cleaned up.
type DeletePortraitsPayload struct {
	CharacterID string `json:"character_id"`
}

// ReconcileStatsPayload bounds one reconciliation run.
type ReconcileStatsPayload struct {
	Limit int `json:"limit"`
}
