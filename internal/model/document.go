package model

import "time"

type Status string

const (
	StatusDrafted   Status = "drafted"
	StatusPublished Status = "published"
	StatusForked    Status = "forked"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusDrafted, StatusPublished, StatusForked, StatusArchived, StatusDeleted:
		return Status(value), true
	}
	return "", false
}

type Document struct {
	UniqueID     string     `json:"uniqueId"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	HTMLContent  string     `json:"htmlContent,omitempty"`
	Status       Status     `json:"status"`
	CollectionID string     `json:"collectionId"`
	ParentID     string     `json:"parentId,omitempty"`
	Children     []Document `json:"children,omitempty"`
	CreatedOn    *time.Time `json:"createdOn,omitempty"`
	PublishedOn  *time.Time `json:"publishedOn,omitempty"`
	DeletedOn    *time.Time `json:"deletedOn,omitempty"`
	ArchivedOn   *time.Time `json:"archivedOn,omitempty"`
	EditedOn     *time.Time `json:"editedOn,omitempty"`

	CreatedUserFirstName string `json:"createdUserFirstName,omitempty"`
	CreatedUserLastName  string `json:"createdUserLastName,omitempty"`
}

// DisplayTitle is the title shown on every surface. A document without a
// title renders as "Untitled"; the stored title is never rewritten.
func (d *Document) DisplayTitle() string {
	if d.Title == "" {
		return "Untitled"
	}
	return d.Title
}

// EffectiveTime selects the one timestamp that is authoritative for display
// under the document's current status.
func (d *Document) EffectiveTime() *time.Time {
	switch d.Status {
	case StatusPublished:
		return d.PublishedOn
	case StatusDrafted:
		return d.CreatedOn
	case StatusDeleted:
		return d.DeletedOn
	default:
		return d.ArchivedOn
	}
}

// EffectiveVerb is the past-tense action that pairs with EffectiveTime
// ("You published 2 days ago").
func (d *Document) EffectiveVerb() string {
	switch d.Status {
	case StatusPublished:
		return "published"
	case StatusDrafted:
		return "created"
	case StatusDeleted:
		return "deleted"
	default:
		return "archived"
	}
}

// Editor returns the full name of the user holding the working copy, when
// the server reported one.
func (d *Document) Editor() string {
	if d.CreatedUserFirstName == "" && d.CreatedUserLastName == "" {
		return ""
	}
	if d.CreatedUserFirstName == "" {
		return d.CreatedUserLastName
	}
	if d.CreatedUserLastName == "" {
		return d.CreatedUserFirstName
	}
	return d.CreatedUserFirstName + " " + d.CreatedUserLastName
}

// CanTransition reports whether a status change is one of the allowed
// moves: drafted/published/forked may be archived or deleted, published
// may be forked, drafted and forked may be published, archived may be
// deleted, deleted may only be removed permanently.
func CanTransition(from, to Status) bool {
	switch to {
	case StatusPublished:
		return from == StatusDrafted || from == StatusForked
	case StatusForked:
		return from == StatusPublished
	case StatusArchived:
		return from == StatusDrafted || from == StatusPublished || from == StatusForked
	case StatusDeleted:
		return from != StatusDeleted
	}
	return false
}
