package shell

import (
	"context"
	"strings"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Screen names the view a route resolves to.
type Screen string

const (
	ScreenHome          Screen = "home"
	ScreenDrafts        Screen = "drafts"
	ScreenArchive       Screen = "archive"
	ScreenTrash         Screen = "trash"
	ScreenDocument      Screen = "document"
	ScreenCollection    Screen = "collection"
	ScreenCreate        Screen = "create"
	ScreenEdit          Screen = "edit"
	ScreenHistoryDetail Screen = "history"
	ScreenUnknown       Screen = ""
)

const (
	PathHome    = "/docs/home"
	PathDrafts  = "/docs/drafts"
	PathArchive = "/docs/archive"
	PathTrash   = "/docs/trash"
)

func DocumentPath(id string) string   { return "/docs/" + id }
func CollectionPath(id string) string { return "/docs/collection/" + id }
func CreatePath(id string) string     { return "/docs/create/" + id }
func EditPath(id string) string       { return "/docs/edit/" + id }

func HistoryPath(docID, revisionID string) string {
	return "/docs/" + docID + "/history/" + revisionID
}

// Route is a resolved location: the screen plus any path parameters.
type Route struct {
	Path       string
	Screen     Screen
	DocumentID string
	// CollectionID is set for collection views, RevisionID for history
	// drill-downs.
	CollectionID string
	RevisionID   string
}

// SelectionID is the identity key the navigation tree highlights for this
// route, keeping tree selection in sync with programmatic navigation.
func (r Route) SelectionID() string {
	switch r.Screen {
	case ScreenCollection:
		return r.CollectionID
	case ScreenDocument, ScreenCreate, ScreenEdit, ScreenHistoryDetail:
		return r.DocumentID
	default:
		return ""
	}
}

// Resolve matches a path against the route table.
func Resolve(path string) Route {
	route := Route{Path: path}
	rest, ok := strings.CutPrefix(path, "/docs/")
	if !ok {
		return route
	}
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == "home":
		route.Screen = ScreenHome
	case len(parts) == 1 && parts[0] == "drafts":
		route.Screen = ScreenDrafts
	case len(parts) == 1 && parts[0] == "archive":
		route.Screen = ScreenArchive
	case len(parts) == 1 && parts[0] == "trash":
		route.Screen = ScreenTrash
	case len(parts) == 1 && parts[0] != "":
		route.Screen = ScreenDocument
		route.DocumentID = parts[0]
	case len(parts) == 2 && parts[0] == "collection":
		route.Screen = ScreenCollection
		route.CollectionID = parts[1]
	case len(parts) == 2 && parts[0] == "create":
		route.Screen = ScreenCreate
		route.DocumentID = parts[1]
	case len(parts) == 2 && parts[0] == "edit":
		route.Screen = ScreenEdit
		route.DocumentID = parts[1]
	case len(parts) == 3 && parts[1] == "history":
		route.Screen = ScreenHistoryDetail
		route.DocumentID = parts[0]
		route.RevisionID = parts[2]
	}
	return route
}

// Router tracks the current location and a back stack. On mount the app
// force-navigates to the documents home.
type Router struct {
	mu    sync.Mutex
	stack []Route
}

func NewRouter() *Router {
	r := &Router{}
	r.Navigate(PathHome)
	return r
}

func (r *Router) Navigate(path string) Route {
	route := Resolve(path)
	r.mu.Lock()
	r.stack = append(r.stack, route)
	r.mu.Unlock()
	logutil.GetLogger(context.Background()).Debug("navigate",
		zap.String("path", path),
		zap.String("screen", string(route.Screen)))
	return route
}

// Back pops to the previous location, staying put at the bottom of the
// stack.
func (r *Router) Back() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stack[len(r.stack)-1]
}
