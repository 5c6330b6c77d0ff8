// Package document holds the uploaded documents and their analysis results.
package document

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a document id is not in the store
var ErrNotFound = errors.New("document not found")

// File is the raw upload a document was created from
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// SWOT is a four-quadrant analysis. A nil *SWOT means no analysis yet and
// an empty field means the model produced no such section.
type SWOT struct {
	Strengths     string `json:"strengths,omitempty"`
	Weaknesses    string `json:"weaknesses,omitempty"`
	Opportunities string `json:"opportunities,omitempty"`
	Threats       string `json:"threats,omitempty"`
}

// Empty reports whether every quadrant is empty
func (s *SWOT) Empty() bool {
	return s == nil || s.Strengths == "" && s.Weaknesses == "" && s.Opportunities == "" && s.Threats == ""
}

// Document is one uploaded file with its extracted text and analyses.
// Text, Summary and Insights are empty until produced.
type Document struct {
	ID   string
	Name string
	File File

	Text     string
	Summary  string
	Insights string
	SWOT     *SWOT

	AnalysisInProgress bool
	AnalysisError      string
}

// New creates a document with a fresh unique id
func New(file File) *Document {
	return &Document{
		ID:   uuid.NewString(),
		Name: file.Name,
		File: file,
	}
}

// Clone returns a deep copy
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	c.File.Data = append([]byte(nil), d.File.Data...)
	if d.SWOT != nil {
		swot := *d.SWOT
		c.SWOT = &swot
	}
	return &c
}

// Store keeps the current document set in upload order
type Store struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]*Document
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// Replace discards the current set and stores docs in order
func (s *Store) Replace(docs []*Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = make([]string, 0, len(docs))
	s.docs = make(map[string]*Document, len(docs))
	for _, d := range docs {
		s.order = append(s.order, d.ID)
		s.docs[d.ID] = d.Clone()
	}
}

// List returns copies of every document in upload order
func (s *Store) List() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id].Clone())
	}
	return out
}

// Get returns a copy of the document with id
func (s *Store) Get(id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d.Clone(), nil
}

// Update applies fn to the stored document under the write lock.
// It returns false when the document is no longer in the store, which
// happens when a new selection replaced the set mid-operation.
func (s *Store) Update(id string, fn func(d *Document)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.docs[id]
	if !ok {
		return false
	}
	fn(d)
	return true
}

// Len returns the number of stored documents
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
