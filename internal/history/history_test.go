package history

import (
	"testing"
	"time"

	"github.com/breezeware/dynamodocs/internal/model"
)

func rev(id string, version int, editedOn time.Time) model.Revision {
	return model.Revision{
		UniqueID:   id,
		DocumentID: "doc-1",
		Version:    version,
		EditedOn:   editedOn,
		Status:     model.StatusPublished,
	}
}

func TestGroupRevisionsAcrossMonths(t *testing.T) {
	june := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	may := time.Date(2024, 5, 2, 14, 0, 0, 0, time.UTC)

	groups := GroupRevisions([]model.Revision{
		rev("r1", 1, may),
		rev("r2", 2, june),
		rev("r3", 3, june.Add(48 * time.Hour)),
	})
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Label != "Jun 2024" || groups[1].Label != "May 2024" {
		t.Fatalf("group order wrong: %s, %s", groups[0].Label, groups[1].Label)
	}
	if groups[0].Count() != 2 || groups[1].Count() != 1 {
		t.Fatalf("counts wrong: %d, %d", groups[0].Count(), groups[1].Count())
	}
}

// Bucket order must come out newest-first regardless of input ordering,
// while insertion order inside a bucket is preserved.
func TestGroupRevisionsStableUnderReordering(t *testing.T) {
	june := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	may := time.Date(2024, 5, 2, 14, 0, 0, 0, time.UTC)

	forward := GroupRevisions([]model.Revision{
		rev("r1", 1, may), rev("r2", 2, june), rev("r3", 3, june),
	})
	backward := GroupRevisions([]model.Revision{
		rev("r3", 3, june), rev("r2", 2, june), rev("r1", 1, may),
	})
	if forward[0].Label != backward[0].Label || forward[1].Label != backward[1].Label {
		t.Fatal("group order depends on input order")
	}
	if forward[0].Entries[0].UniqueID != "r2" {
		t.Errorf("forward insertion order lost: %s", forward[0].Entries[0].UniqueID)
	}
	if backward[0].Entries[0].UniqueID != "r3" {
		t.Errorf("backward insertion order lost: %s", backward[0].Entries[0].UniqueID)
	}
}

func TestGroupRevisionsYearBoundary(t *testing.T) {
	dec := time.Date(2023, 12, 28, 9, 0, 0, 0, time.UTC)
	jan := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

	groups := GroupRevisions([]model.Revision{rev("r1", 1, dec), rev("r2", 2, jan)})
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Label != "Jan 2024" || groups[1].Label != "Dec 2023" {
		t.Fatalf("year boundary order wrong: %s, %s", groups[0].Label, groups[1].Label)
	}
}

func TestGroupRevisionsEmpty(t *testing.T) {
	if groups := GroupRevisions(nil); len(groups) != 0 {
		t.Fatalf("got %d groups for empty input", len(groups))
	}
}
