package crawler

import (
	"context"

	"l10nminer/pkg/github"
)

// SearchAPI defines the interface for GitHub search operations
type SearchAPI interface {
	SearchIssues(ctx context.Context, term, created string, page, perPage int) (*github.SearchPayload, error)
	FetchComments(ctx context.Context, commentsURL string) ([]github.Comment, error)
}
