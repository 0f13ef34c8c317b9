package testserver

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/breezeware/dynamodocs/internal/model"
	appErr "github.com/breezeware/dynamodocs/internal/pkg/errors"
	"github.com/breezeware/dynamodocs/internal/session"
)

// Server is an in-process stand-in for the Dynamo Docs backend, speaking
// the exact wire contract the client expects: list envelopes, detail-list
// error bodies, Content-Disposition downloads. Tests run the whole client
// stack against it.
type Server struct {
	store  *Store
	engine *gin.Engine
}

func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{store: NewStore()}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	s.register(engine)
	s.engine = engine
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) register(engine *gin.Engine) {
	engine.GET("/collections", s.listCollections)
	engine.POST("/collections", s.createCollection)
	engine.PUT("/collections", s.updateCollection)
	engine.DELETE("/collections/:id", s.deleteCollection)
	engine.POST("/collections/:id/documents/upload", s.uploadDocument)

	engine.GET("/documents", s.listDocuments)
	engine.POST("/documents", s.createDocument)
	engine.PUT("/documents", s.updateDocument)
	engine.PUT("/documents/publish", s.publishDocument)
	engine.PUT("/documents/:id/archive", s.archiveDocument)
	engine.PUT("/documents/:id/delete", s.deleteDocument)
	engine.PUT("/documents/:id/fork-check", s.forkCheck)
	engine.GET("/documents/:id/download", s.downloadDocument)
	engine.GET("/documents/:id/revisions", s.revisions)
}

// caller resolves the requesting user from the bearer token. Unsigned
// tokens are fine here, identity is all that matters.
func caller(c *gin.Context) *session.Session {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return &session.Session{}
	}
	s, err := session.FromToken(token)
	if err != nil {
		return &session.Session{Token: token}
	}
	return s
}

func listEnvelope(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, gin.H{
		"data":             data,
		"totalElements":    count,
		"totalPages":       1,
		"numberOfElements": count,
	})
}

func fail(c *gin.Context, status int, details ...string) {
	c.JSON(status, gin.H{"details": details})
}

func failErr(c *gin.Context, err error) {
	switch {
	case appErr.IsNotFound(err):
		fail(c, http.StatusNotFound, err.Error())
	case appErr.IsConflict(err):
		fail(c, http.StatusConflict, err.Error())
	default:
		fail(c, http.StatusBadRequest, err.Error())
	}
}

func (s *Server) listCollections(c *gin.Context) {
	if c.Query("fields") == "uniqueId,name" {
		collections := s.store.Collections("", "")
		refs := make([]model.CollectionRef, 0, len(collections))
		for _, col := range collections {
			refs = append(refs, model.CollectionRef{UniqueID: col.UniqueID, Name: col.Name})
		}
		listEnvelope(c, refs, len(refs))
		return
	}
	collections := s.store.Collections(c.Query("search"), c.Query("collection-id"))
	listEnvelope(c, collections, len(collections))
}

func (s *Server) createCollection(c *gin.Context) {
	var input model.Collection
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.store.CreateCollection(input)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (s *Server) updateCollection(c *gin.Context) {
	var input model.Collection
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.UpdateCollection(input); err != nil {
		failErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) deleteCollection(c *gin.Context) {
	if err := s.store.DeleteCollection(c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) listDocuments(c *gin.Context) {
	status, _ := model.ParseStatus(c.Query("status"))
	docs := s.store.Documents(status, c.Query("search"), c.Query("document-id"))
	listEnvelope(c, docs, len(docs))
}

func (s *Server) createDocument(c *gin.Context) {
	var input struct {
		CollectionID string `json:"collectionId"`
		ParentID     string `json:"parentId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	who := caller(c)
	created, err := s.store.CreateDocument(input.CollectionID, input.ParentID, who.UserID, who.FirstName, who.LastName)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (s *Server) updateDocument(c *gin.Context) {
	var input model.Document
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	who := caller(c)
	if err := s.store.UpdateDocument(input, who.FirstName, who.LastName); err != nil {
		failErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) publishDocument(c *gin.Context) {
	var input model.Document
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Title == "" {
		fail(c, http.StatusBadRequest, "Title is required")
		return
	}
	published, err := s.store.Publish(input)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, published)
}

func (s *Server) archiveDocument(c *gin.Context) {
	if err := s.store.Archive(c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) deleteDocument(c *gin.Context) {
	if err := s.store.Delete(c.Param("id"), c.Query("permanent") == "true"); err != nil {
		failErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) forkCheck(c *gin.Context) {
	who := caller(c)
	forked, doc, err := s.store.ForkCheck(c.Param("id"), who.UserID, who.FirstName, who.LastName)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"forked": forked, "documentDto": doc})
}

func (s *Server) uploadDocument(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		fail(c, http.StatusBadRequest, "unreadable file")
		return
	}
	who := caller(c)
	created, err := s.store.Upload(c.Param("id"), c.Query("parent-document-id"),
		header.Filename, content, who.UserID, who.FirstName, who.LastName)
	if err != nil {
		switch err {
		case appErr.ErrTitleTooLong:
			fail(c, http.StatusBadRequest, "Uploaded file Title must be less than 100 characters")
		case appErr.ErrEmptyFile:
			fail(c, http.StatusBadRequest, "File is Empty")
		default:
			failErr(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, created)
}

func (s *Server) downloadDocument(c *gin.Context) {
	doc, err := s.store.Document(c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	filename := doc.DisplayTitle() + ".md"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/markdown", []byte(doc.Content))
}

func (s *Server) revisions(c *gin.Context) {
	documentID := c.Param("id")
	if revisionID := c.Query("revision-id"); revisionID != "" {
		rev, err := s.store.Revision(documentID, revisionID)
		if err != nil {
			failErr(c, err)
			return
		}
		c.JSON(http.StatusOK, rev)
		return
	}
	var date *time.Time
	if raw := c.Query("revision-date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid revision-date")
			return
		}
		date = &parsed
	}
	revisions := s.store.Revisions(documentID, c.Query("username"), date)
	if revisions == nil {
		revisions = []model.Revision{}
	}
	c.JSON(http.StatusOK, revisions)
}
