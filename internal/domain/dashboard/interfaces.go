package dashboard

import "context"

// Remote is the port to the workspace holding the three datasets.
// Every call carries the token explicitly so a caller can pin one
// credential snapshot across several calls.
type Remote interface {
	VerifyToken(ctx context.Context, token string) error
	ProbeDataset(ctx context.Context, token, datasetID string) error
	QueryProjects(ctx context.Context, token, datasetID string) ([]Project, error)
	QueryStatuses(ctx context.Context, token, datasetID string) ([]ProjectStatus, error)
	QueryUpdates(ctx context.Context, token, datasetID string) ([]ProjectUpdate, error)
}
