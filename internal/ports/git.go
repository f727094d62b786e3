package ports

import "context"

// GitInfo is the repository context attached to work sessions.
type GitInfo struct {
	Branch     string
	Commit     string
	Repository string
	IsClean    bool
}

// GitDetector defines the interface for git context detection.
// This is a driven port (implemented by adapters).
type GitDetector interface {
	// Detect inspects the repository containing workingDir.
	Detect(ctx context.Context, workingDir string) (*GitInfo, error)
}
