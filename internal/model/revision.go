package model

import "time"

// Revision is an immutable snapshot of a document at a given version.
type Revision struct {
	UniqueID            string    `json:"uniqueId"`
	DocumentID          string    `json:"documentId"`
	Version             int       `json:"version"`
	Title               string    `json:"title"`
	Content             string    `json:"content"`
	EditedOn            time.Time `json:"editedOn"`
	EditedUserFirstName string    `json:"editedUserFirstName"`
	EditedUserLastName  string    `json:"editedUserLastName"`
	Status              Status    `json:"status"`
}

func (r *Revision) DisplayTitle() string {
	if r.Title == "" {
		return "Untitled"
	}
	return r.Title
}

func (r *Revision) EditorName() string {
	if r.EditedUserFirstName == "" {
		return r.EditedUserLastName
	}
	if r.EditedUserLastName == "" {
		return r.EditedUserFirstName
	}
	return r.EditedUserFirstName + " " + r.EditedUserLastName
}
