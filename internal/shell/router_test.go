package shell

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want Route
	}{
		{"/docs/home", Route{Path: "/docs/home", Screen: ScreenHome}},
		{"/docs/drafts", Route{Path: "/docs/drafts", Screen: ScreenDrafts}},
		{"/docs/archive", Route{Path: "/docs/archive", Screen: ScreenArchive}},
		{"/docs/trash", Route{Path: "/docs/trash", Screen: ScreenTrash}},
		{"/docs/abc-123", Route{Path: "/docs/abc-123", Screen: ScreenDocument, DocumentID: "abc-123"}},
		{"/docs/collection/col-1", Route{Path: "/docs/collection/col-1", Screen: ScreenCollection, CollectionID: "col-1"}},
		{"/docs/create/d1", Route{Path: "/docs/create/d1", Screen: ScreenCreate, DocumentID: "d1"}},
		{"/docs/edit/d1", Route{Path: "/docs/edit/d1", Screen: ScreenEdit, DocumentID: "d1"}},
		{"/docs/d1/history/r9", Route{Path: "/docs/d1/history/r9", Screen: ScreenHistoryDetail, DocumentID: "d1", RevisionID: "r9"}},
		{"/welcome", Route{Path: "/welcome", Screen: ScreenUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Resolve(tt.path); got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSelectionID(t *testing.T) {
	if got := Resolve("/docs/collection/col-1").SelectionID(); got != "col-1" {
		t.Errorf("collection selection = %q", got)
	}
	if got := Resolve("/docs/doc-9").SelectionID(); got != "doc-9" {
		t.Errorf("document selection = %q", got)
	}
	if got := Resolve("/docs/home").SelectionID(); got != "" {
		t.Errorf("home selection = %q, want empty", got)
	}
}

func TestRouterStartsAtHome(t *testing.T) {
	r := NewRouter()
	if r.Current().Screen != ScreenHome {
		t.Fatalf("mounted at %q, want home", r.Current().Screen)
	}
}

func TestRouterBack(t *testing.T) {
	r := NewRouter()
	r.Navigate(DocumentPath("d1"))
	r.Navigate(EditPath("d1"))

	if got := r.Back(); got.Screen != ScreenDocument {
		t.Fatalf("back landed on %q, want document", got.Screen)
	}
	r.Back()
	if got := r.Back(); got.Screen != ScreenHome {
		t.Fatalf("backing past the bottom must stay home, got %q", got.Screen)
	}
}
