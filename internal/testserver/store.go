package testserver

import (
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/breezeware/dynamodocs/internal/model"
	appErr "github.com/breezeware/dynamodocs/internal/pkg/errors"
	"github.com/breezeware/dynamodocs/internal/pkg/timeutil"
)

// record is a stored document plus the bookkeeping the wire model does not
// carry: who created it and, for working copies, which document it forks.
type record struct {
	doc       model.Document
	creatorID string
	forkOf    string
}

// Store is the reference backend state: plain maps behind one mutex,
// enforcing the same business rules the real service does.
type Store struct {
	mu          sync.Mutex
	collections map[string]*model.Collection
	documents   map[string]*record
	revisions   []model.Revision
	versions    map[string]int
	order       []string
}

func NewStore() *Store {
	return &Store{
		collections: make(map[string]*model.Collection),
		documents:   make(map[string]*record),
		versions:    make(map[string]int),
	}
}

func now() *time.Time {
	t := time.Now().UTC()
	return &t
}

func (s *Store) CreateCollection(input model.Collection) (*model.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if input.Name == "" {
		return nil, appErr.ErrInvalid
	}
	input.UniqueID = uuid.NewString()
	s.collections[input.UniqueID] = &input
	out := input
	return &out, nil
}

func (s *Store) UpdateCollection(input model.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.collections[input.UniqueID]
	if !ok {
		return appErr.ErrNotFound
	}
	existing.Name = input.Name
	existing.Description = input.Description
	existing.Permission = input.Permission
	return nil
}

// DeleteCollection removes the collection and cascades to every document
// in it.
func (s *Store) DeleteCollection(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[id]; !ok {
		return appErr.ErrNotFound
	}
	delete(s.collections, id)
	for docID, rec := range s.documents {
		if rec.doc.CollectionID == id {
			delete(s.documents, docID)
			s.dropOrder(docID)
		}
	}
	return nil
}

// Collections returns every collection with its nested, non-deleted
// document tree, filtered by search and optionally narrowed to one id.
func (s *Store) Collections(search, collectionID string) []model.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Collection, 0, len(s.collections))
	for id, col := range s.collections {
		if collectionID != "" && id != collectionID {
			continue
		}
		copied := *col
		copied.DocumentList = s.treeLocked(id, search)
		if search != "" && len(copied.DocumentList) == 0 &&
			!containsFold(copied.Name, search) {
			continue
		}
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// treeLocked materializes the nested document tree of one collection,
// skipping archived and deleted documents the way the navigation view
// expects.
func (s *Store) treeLocked(collectionID, search string) []model.Document {
	var build func(parentID string) []model.Document
	build = func(parentID string) []model.Document {
		var out []model.Document
		for _, id := range s.order {
			rec := s.documents[id]
			if rec == nil || rec.doc.CollectionID != collectionID || rec.doc.ParentID != parentID {
				continue
			}
			if rec.doc.Status == model.StatusArchived || rec.doc.Status == model.StatusDeleted {
				continue
			}
			if rec.forkOf != "" {
				continue
			}
			doc := rec.doc
			doc.Children = build(id)
			if search != "" && !containsFold(doc.Title, search) && len(doc.Children) == 0 {
				continue
			}
			out = append(out, doc)
		}
		return out
	}
	return build("")
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (s *Store) CreateDocument(collectionID, parentID, creatorID, firstName, lastName string) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collectionID]; !ok {
		return nil, appErr.ErrNotFound
	}
	if parentID != "" {
		if _, ok := s.documents[parentID]; !ok {
			return nil, appErr.ErrNotFound
		}
	}
	doc := model.Document{
		UniqueID:             uuid.NewString(),
		Status:               model.StatusDrafted,
		CollectionID:         collectionID,
		ParentID:             parentID,
		CreatedOn:            now(),
		CreatedUserFirstName: firstName,
		CreatedUserLastName:  lastName,
	}
	s.documents[doc.UniqueID] = &record{doc: doc, creatorID: creatorID}
	s.order = append(s.order, doc.UniqueID)
	out := doc
	return &out, nil
}

// Documents lists by status, skipping working copies; an explicit
// documentID bypasses the status filter and resolves nested children.
func (s *Store) Documents(status model.Status, search, documentID string) []model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if documentID != "" {
		rec, ok := s.documents[documentID]
		if !ok {
			return nil
		}
		doc := rec.doc
		doc.Children = s.childrenLocked(documentID)
		return []model.Document{doc}
	}
	var out []model.Document
	for _, id := range s.order {
		rec := s.documents[id]
		if rec == nil || rec.forkOf != "" {
			continue
		}
		if status != "" && rec.doc.Status != status {
			continue
		}
		if search != "" && !containsFold(rec.doc.Title, search) {
			continue
		}
		out = append(out, rec.doc)
	}
	return out
}

func (s *Store) childrenLocked(parentID string) []model.Document {
	var out []model.Document
	for _, id := range s.order {
		rec := s.documents[id]
		if rec == nil || rec.doc.ParentID != parentID || rec.forkOf != "" {
			continue
		}
		if rec.doc.Status == model.StatusDeleted {
			continue
		}
		child := rec.doc
		child.Children = s.childrenLocked(id)
		out = append(out, child)
	}
	return out
}

// UpdateDocument overwrites the stored title and content and records a
// revision snapshot.
func (s *Store) UpdateDocument(input model.Document, editorFirst, editorLast string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.documents[input.UniqueID]
	if !ok {
		return appErr.ErrNotFound
	}
	if rec.doc.Status == model.StatusDeleted {
		return appErr.ErrInvalid
	}
	rec.doc.Title = input.Title
	rec.doc.Content = input.Content
	rec.doc.EditedOn = now()
	s.recordRevisionLocked(rec, editorFirst, editorLast)
	return nil
}

// Publish makes a document live. Publishing a working copy folds its
// content back into the source document and discards the copy.
func (s *Store) Publish(input model.Document) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.documents[input.UniqueID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	rec.doc.Title = input.Title
	rec.doc.Content = input.Content
	if rec.forkOf != "" {
		source, ok := s.documents[rec.forkOf]
		if !ok {
			return nil, appErr.ErrNotFound
		}
		source.doc.Title = rec.doc.Title
		source.doc.Content = rec.doc.Content
		source.doc.Status = model.StatusPublished
		source.doc.PublishedOn = now()
		delete(s.documents, rec.doc.UniqueID)
		s.dropOrder(rec.doc.UniqueID)
		out := source.doc
		return &out, nil
	}
	if !model.CanTransition(rec.doc.Status, model.StatusPublished) {
		return nil, appErr.ErrConflict
	}
	rec.doc.Status = model.StatusPublished
	rec.doc.PublishedOn = now()
	out := rec.doc
	return &out, nil
}

func (s *Store) Archive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.documents[id]
	if !ok {
		return appErr.ErrNotFound
	}
	if !model.CanTransition(rec.doc.Status, model.StatusArchived) {
		return appErr.ErrConflict
	}
	rec.doc.Status = model.StatusArchived
	rec.doc.ArchivedOn = now()
	return nil
}

func (s *Store) Delete(id string, permanent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.documents[id]
	if !ok {
		return appErr.ErrNotFound
	}
	if permanent {
		if rec.doc.Status != model.StatusDeleted {
			return appErr.ErrConflict
		}
		delete(s.documents, id)
		s.dropOrder(id)
		return nil
	}
	if !model.CanTransition(rec.doc.Status, model.StatusDeleted) {
		return appErr.ErrConflict
	}
	rec.doc.Status = model.StatusDeleted
	rec.doc.DeletedOn = now()
	return nil
}

// ForkCheck hands out the working copy of a published document. A second
// call by the fork's owner returns the same copy; anyone else is told who
// holds it.
func (s *Store) ForkCheck(id, callerID, firstName, lastName string) (bool, *model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.documents[id]
	if !ok {
		return false, nil, appErr.ErrNotFound
	}
	if rec.forkOf != "" {
		// Fork-checking a working copy resolves against its source.
		id = rec.forkOf
		rec = s.documents[id]
		if rec == nil {
			return false, nil, appErr.ErrNotFound
		}
	}
	for _, existing := range s.documents {
		if existing.forkOf != id {
			continue
		}
		fork := existing.doc
		if existing.creatorID == callerID {
			return true, &fork, nil
		}
		return false, &fork, nil
	}
	fork := rec.doc
	fork.UniqueID = uuid.NewString()
	fork.Status = model.StatusForked
	fork.CreatedOn = now()
	fork.CreatedUserFirstName = firstName
	fork.CreatedUserLastName = lastName
	fork.Children = nil
	s.documents[fork.UniqueID] = &record{doc: fork, creatorID: callerID, forkOf: id}
	s.order = append(s.order, fork.UniqueID)
	out := fork
	return true, &out, nil
}

const maxUploadTitle = 100

// Upload imports a markdown file as a new draft titled after the file.
func (s *Store) Upload(collectionID, parentID, filename string, content []byte, creatorID, firstName, lastName string) (*model.Document, error) {
	title := strings.TrimSuffix(filename, ".md")
	if utf8.RuneCountInString(title) >= maxUploadTitle {
		return nil, appErr.ErrTitleTooLong
	}
	if len(content) == 0 {
		return nil, appErr.ErrEmptyFile
	}
	doc, err := s.CreateDocument(collectionID, parentID, creatorID, firstName, lastName)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.documents[doc.UniqueID]
	rec.doc.Title = title
	rec.doc.Content = string(content)
	out := rec.doc
	return &out, nil
}

func (s *Store) Document(id string) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.documents[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	out := rec.doc
	return &out, nil
}

func (s *Store) recordRevisionLocked(rec *record, firstName, lastName string) {
	s.versions[rec.doc.UniqueID]++
	s.revisions = append(s.revisions, model.Revision{
		UniqueID:            uuid.NewString(),
		DocumentID:          rec.doc.UniqueID,
		Version:             s.versions[rec.doc.UniqueID],
		Title:               rec.doc.Title,
		Content:             rec.doc.Content,
		EditedOn:            *rec.doc.EditedOn,
		EditedUserFirstName: firstName,
		EditedUserLastName:  lastName,
		Status:              rec.doc.Status,
	})
}

// Revisions lists a document's edit history, optionally filtered by editor
// name and revision date.
func (s *Store) Revisions(documentID, username string, date *time.Time) []model.Revision {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Revision
	for _, rev := range s.revisions {
		if rev.DocumentID != documentID {
			continue
		}
		if username != "" && !containsFold(rev.EditorName(), username) {
			continue
		}
		if date != nil && !timeutil.SameDate(rev.EditedOn, *date, time.UTC) {
			continue
		}
		out = append(out, rev)
	}
	// Newest first, the order the history drawer expects.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EditedOn.After(out[j].EditedOn)
	})
	return out
}

func (s *Store) Revision(documentID, revisionID string) (*model.Revision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rev := range s.revisions {
		if rev.DocumentID == documentID && rev.UniqueID == revisionID {
			out := rev
			return &out, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (s *Store) dropOrder(id string) {
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
