package history

import (
	"context"
	"sort"
	"time"

	"github.com/breezeware/dynamodocs/internal/api"
	"github.com/breezeware/dynamodocs/internal/model"
	"github.com/breezeware/dynamodocs/internal/pkg/timeutil"
)

// Filter narrows the revision listing: Username is matched as a substring
// of the editor's name server-side, Date keeps only revisions edited on
// that calendar day.
type Filter struct {
	Username string
	Date     *time.Time
}

// Group is one collapsible month bucket of the history drawer.
type Group struct {
	Label   string
	Month   time.Time
	Entries []model.Revision
}

// Count is what the group header shows next to the label.
func (g *Group) Count() int {
	return len(g.Entries)
}

type Browser struct {
	api *api.Client
}

func NewBrowser(client *api.Client) *Browser {
	return &Browser{api: client}
}

// Load fetches the revision history of a document and groups it into
// month/year buckets, newest month first.
func (b *Browser) Load(ctx context.Context, documentID string, filter Filter) ([]Group, error) {
	revisions, err := b.api.Revisions(ctx, documentID, filter.Username, filter.Date)
	if err != nil {
		return nil, err
	}
	return GroupRevisions(revisions), nil
}

// Snapshot fetches one historical revision for read-only rendering.
func (b *Browser) Snapshot(ctx context.Context, documentID, revisionID string) (*model.Revision, error) {
	return b.api.Revision(ctx, documentID, revisionID)
}

// GroupRevisions buckets revisions by calendar month and year. Bucket
// order is always newest month first no matter how the input was ordered;
// inside a bucket the input order is preserved.
func GroupRevisions(revisions []model.Revision) []Group {
	byMonth := make(map[time.Time]*Group)
	for _, rev := range revisions {
		month := time.Date(rev.EditedOn.Year(), rev.EditedOn.Month(), 1, 0, 0, 0, 0, time.UTC)
		group, ok := byMonth[month]
		if !ok {
			group = &Group{Label: timeutil.MonthYear(rev.EditedOn), Month: month}
			byMonth[month] = group
		}
		group.Entries = append(group.Entries, rev)
	}
	groups := make([]Group, 0, len(byMonth))
	for _, group := range byMonth {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Month.After(groups[j].Month)
	})
	return groups
}
