package doctree

import "github.com/breezeware/dynamodocs/internal/model"

type Kind string

const (
	KindCollection Kind = "collection"
	KindDocument   Kind = "document"
)

// Node is one renderable entry of the navigation tree. The ID doubles as
// the selection key and the routing target.
type Node struct {
	ID           string
	Title        string
	Kind         Kind
	Status       model.Status
	CollectionID string
	ParentID     string
	Depth        int
	Children     []*Node
}

// StatusIcon selects the icon glyph for a node, matching the history list.
func (n *Node) StatusIcon() string {
	if n.Kind == KindCollection {
		return "folder"
	}
	switch n.Status {
	case model.StatusPublished:
		return "publish"
	case model.StatusForked:
		return "edit"
	case model.StatusArchived:
		return "archive"
	case model.StatusDeleted:
		return "delete"
	default:
		return "draft"
	}
}

// Build converts the collection listing into the renderable tree: one root
// node per collection, document children nested depth-first in the order
// the server returned them. Purely derived state, nothing is mutated.
func Build(collections []model.Collection) []*Node {
	roots := make([]*Node, 0, len(collections))
	for i := range collections {
		col := &collections[i]
		node := &Node{
			ID:    col.UniqueID,
			Title: col.Name,
			Kind:  KindCollection,
		}
		for j := range col.DocumentList {
			node.Children = append(node.Children, buildDocument(&col.DocumentList[j], node, 1))
		}
		roots = append(roots, node)
	}
	return roots
}

func buildDocument(doc *model.Document, parent *Node, depth int) *Node {
	collectionID := doc.CollectionID
	if collectionID == "" && parent != nil {
		if parent.Kind == KindCollection {
			collectionID = parent.ID
		} else {
			collectionID = parent.CollectionID
		}
	}
	node := &Node{
		ID:           doc.UniqueID,
		Title:        doc.DisplayTitle(),
		Kind:         KindDocument,
		Status:       doc.Status,
		CollectionID: collectionID,
		Depth:        depth,
	}
	if parent != nil && parent.Kind == KindDocument {
		node.ParentID = parent.ID
	}
	for i := range doc.Children {
		node.Children = append(node.Children, buildDocument(&doc.Children[i], node, depth+1))
	}
	return node
}

// Nest rebuilds parent/child structure from a flat document list,
// preserving input order at every level. Orphans (parent missing from the
// slice) become roots.
func Nest(docs []model.Document) []model.Document {
	known := make(map[string]bool, len(docs))
	for i := range docs {
		known[docs[i].UniqueID] = true
	}
	children := make(map[string][]*model.Document)
	var roots []*model.Document
	for i := range docs {
		doc := &docs[i]
		if doc.ParentID != "" && doc.ParentID != doc.UniqueID && known[doc.ParentID] {
			children[doc.ParentID] = append(children[doc.ParentID], doc)
			continue
		}
		roots = append(roots, doc)
	}
	var materialize func(doc *model.Document) model.Document
	materialize = func(doc *model.Document) model.Document {
		out := *doc
		out.Children = nil
		for _, child := range children[doc.UniqueID] {
			out.Children = append(out.Children, materialize(child))
		}
		return out
	}
	out := make([]model.Document, 0, len(roots))
	for _, root := range roots {
		out = append(out, materialize(root))
	}
	return out
}

// Flatten walks the tree depth-first, the order the drawer renders rows.
func Flatten(roots []*Node) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n)
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return out
}

// Find returns the node carrying the given identity key, or nil.
func Find(roots []*Node, id string) *Node {
	for _, node := range Flatten(roots) {
		if node.ID == id {
			return node
		}
	}
	return nil
}
