package model

type Permission string

const (
	PermissionReadWrite Permission = "read_write"
	PermissionRead      Permission = "read"
	PermissionNoAccess  Permission = "no_access"
)

type Collection struct {
	UniqueID     string     `json:"uniqueId"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Permission   Permission `json:"permission"`
	DocumentList []Document `json:"documentList,omitempty"`
}

// CollectionRef is the short form returned by the collection summary list.
type CollectionRef struct {
	UniqueID string `json:"uniqueId"`
	Name     string `json:"name"`
}
