package config

const (
	// StaleReindexBatchSize is how many index-stale links one reindex pass picks up.
	StaleReindexBatchSize = 500

	// SearchIndexVersion is stamped on links once they are written to the search index.
	SearchIndexVersion = 1
)
