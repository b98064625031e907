package dashboard

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Fetcher retrieves and joins the three datasets.
type Fetcher struct {
	remote Remote
	logger *slog.Logger
}

// NewFetcher creates a new Fetcher.
func NewFetcher(remote Remote, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{remote: remote, logger: logger}
}

// FetchAll queries the projects, status and updates datasets concurrently
// using creds for every call, then joins updates into their statuses.
// If any query fails the whole fetch fails and no partial dataset is
// returned; the remaining queries are cancelled.
func (f *Fetcher) FetchAll(ctx context.Context, creds Credentials) (*Dataset, error) {
	var (
		projects []Project
		statuses []ProjectStatus
		updates  []ProjectUpdate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := f.remote.QueryProjects(gctx, creds.Token, creds.ProjectsDatabaseID)
		if err != nil {
			return err
		}
		projects = rows
		return nil
	})
	g.Go(func() error {
		rows, err := f.remote.QueryStatuses(gctx, creds.Token, creds.StatusDatabaseID)
		if err != nil {
			return err
		}
		statuses = rows
		return nil
	})
	g.Go(func() error {
		rows, err := f.remote.QueryUpdates(gctx, creds.Token, creds.UpdatesDatabaseID)
		if err != nil {
			return err
		}
		updates = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		f.logger.Warn("fetching datasets failed", "error", err)
		return nil, err
	}

	if projects == nil {
		projects = []Project{}
	}
	if updates == nil {
		updates = []ProjectUpdate{}
	}

	ds := &Dataset{
		Projects: projects,
		Statuses: Join(statuses, updates),
		Updates:  updates,
	}
	f.logger.Debug("fetched datasets",
		"projects", len(ds.Projects),
		"statuses", len(ds.Statuses),
		"updates", len(ds.Updates))
	return ds, nil
}
