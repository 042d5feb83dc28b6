package ports

import "context"

// SourceControlPort queries the repository that contains the project.
type SourceControlPort interface {
	// IsRepository reports whether root is inside a working tree. A missing
	// source control binary is reported as false.
	IsRepository(ctx context.Context, root string) bool
	Describe(ctx context.Context, root string) (string, error)
	PushRemote(ctx context.Context, root string) (string, error)
	IsDirty(ctx context.Context, root string) (bool, error)
}
