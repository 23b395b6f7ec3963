package application

const (
	// Sync queue capacity; overflow is dropped with a warning, a later
	// request-sync recovers the account.
	syncQueueSize = 64

	// Export report configuration
	exportSheetName = "Linked Accounts"
)
