package profile

// ImportResult summarizes an import. Skipped records are listed by name
// (clips) or phrase (trigger words).
type ImportResult struct {
	ClipsImported    int
	TriggersImported int
	SkippedClips     []string
	SkippedTriggers  []string
	// UnresolvedDefaults lists default-response clip names that matched
	// no imported clip.
	UnresolvedDefaults []string
}
