package model

import (
	"testing"
	"time"
)

func TestEffectiveTimePicksStatusField(t *testing.T) {
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	published := created.Add(24 * time.Hour)
	archived := created.Add(48 * time.Hour)
	deleted := created.Add(72 * time.Hour)

	// Every timestamp is populated; only the status-authoritative one may
	// be read.
	doc := Document{
		CreatedOn:   &created,
		PublishedOn: &published,
		ArchivedOn:  &archived,
		DeletedOn:   &deleted,
	}

	tests := []struct {
		status   Status
		want     *time.Time
		wantVerb string
	}{
		{StatusPublished, &published, "published"},
		{StatusDrafted, &created, "created"},
		{StatusDeleted, &deleted, "deleted"},
		{StatusArchived, &archived, "archived"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			doc.Status = tt.status
			if got := doc.EffectiveTime(); got != tt.want {
				t.Errorf("EffectiveTime() = %v, want %v", got, tt.want)
			}
			if got := doc.EffectiveVerb(); got != tt.wantVerb {
				t.Errorf("EffectiveVerb() = %q, want %q", got, tt.wantVerb)
			}
		})
	}
}

func TestEffectiveTimeMissingField(t *testing.T) {
	doc := Document{Status: StatusPublished}
	if doc.EffectiveTime() != nil {
		t.Error("expected nil when the authoritative timestamp is absent")
	}
}
