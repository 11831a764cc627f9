package github

import "fmt"

// SearchPayload is the top-level response from the issue search endpoint
type SearchPayload struct {
	TotalCount        int     `json:"total_count"`
	IncompleteResults bool    `json:"incomplete_results"`
	Items             []Issue `json:"items"`
}

// Issue is a single search hit
type Issue struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Body          string  `json:"body"`
	HTMLURL       string  `json:"html_url"`
	RepositoryURL string  `json:"repository_url"`
	CommentsURL   string  `json:"comments_url"`
	Labels        []Label `json:"labels"`
	CreatedAt     string  `json:"created_at"`
}

// Label is an issue label
type Label struct {
	Name string `json:"name"`
}

// Comment is one entry from an issue's comments feed
type Comment struct {
	Body string `json:"body"`
}

// Validate checks that a decoded payload has the shape the crawler depends
// on. Validation is fail-closed: a payload that decoded but is missing the
// items array, or carries an item without its identifying fields, rejects the
// whole page rather than producing half-formed records.
func (p *SearchPayload) Validate() error {
	if p.Items == nil {
		return fmt.Errorf("missing items array")
	}
	if p.TotalCount < 0 {
		return fmt.Errorf("negative total_count %d", p.TotalCount)
	}
	for i := range p.Items {
		if err := p.Items[i].Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks the fields every search hit must carry. Title and body may
// legitimately be empty (the API reports a null body as empty), but an item
// without an id, canonical URL, repository URL or creation date cannot be
// turned into a record.
func (i *Issue) Validate() error {
	if i.ID == 0 {
		return fmt.Errorf("missing id")
	}
	if i.HTMLURL == "" {
		return fmt.Errorf("missing html_url")
	}
	if i.RepositoryURL == "" {
		return fmt.Errorf("missing repository_url")
	}
	if i.CreatedAt == "" {
		return fmt.Errorf("missing created_at")
	}
	return nil
}

// LabelNames flattens the issue's labels into their display names
func (i *Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}
