package mem

import (
	"fmt"
	"sync"

	st "melbgo/store/store"
	"melbgo/trip"
)

// inMemoryDocumentStore is an in-memory implementation of
// st.DocumentStore. It backs tests and the dev server mode.
type inMemoryDocumentStore struct {
	docs map[string]*trip.Document

	mu sync.RWMutex
}

// NewInMemoryDocumentStore creates an empty in-memory store.
func NewInMemoryDocumentStore() st.DocumentStore {
	return &inMemoryDocumentStore{
		docs: make(map[string]*trip.Document),
	}
}

func (s *inMemoryDocumentStore) Get(tripID string) (*trip.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.docs[tripID]
	if !exists {
		return nil, false, nil
	}
	// Return a copy to prevent external modification.
	return doc.Clone(), true, nil
}

func (s *inMemoryDocumentStore) CreateIfAbsent(tripID string, seed *trip.Document) (bool, error) {
	if seed == nil {
		return false, fmt.Errorf("seed document for %s is nil", tripID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[tripID]; exists {
		return false, nil
	}
	s.docs[tripID] = seed.Clone()
	return true, nil
}

func (s *inMemoryDocumentStore) Patch(tripID string, fields st.FieldPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, exists := s.docs[tripID]
	if !exists {
		return fmt.Errorf("document %s not found for patch", tripID)
	}
	st.Apply(doc, fields)
	doc.Sanitize()
	return nil
}
