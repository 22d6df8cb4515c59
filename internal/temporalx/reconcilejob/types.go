package reconcilejob

const (
	WorkflowName = "reconcile"
	ActivityRun  = "reconcile.run"

	// WorkflowID makes the scheduled run a singleton: starting it again
	// while one is in flight is rejected by Temporal.
	WorkflowID = "reconcile-scheduled"
)

type Result struct {
	ExcludedCategories int   `json:"excluded_categories"`
	AuditRowsInserted  int64 `json:"audit_rows_inserted"`
	UsersRecounted     int64 `json:"users_recounted"`
	UsersFailed        int64 `json:"users_failed"`
	HistoryRowsPurged  int64 `json:"history_rows_purged"`
}
