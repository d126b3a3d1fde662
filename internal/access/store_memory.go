package access

import (
	"context"
	"sync"
)

type InMemoryGrantStore struct {
	mu     sync.RWMutex
	grants map[string]Grant
}

func NewInMemoryGrantStore() *InMemoryGrantStore {
	return &InMemoryGrantStore{grants: make(map[string]Grant)}
}

func (s *InMemoryGrantStore) Save(_ context.Context, grant Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grant.ID] = grant
	return nil
}

func (s *InMemoryGrantStore) Get(_ context.Context, id string) (*Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if grant, exists := s.grants[id]; exists {
		return &grant, nil
	}
	return nil, nil
}

func (s *InMemoryGrantStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, id)
	return nil
}

func (s *InMemoryGrantStore) List(_ context.Context) ([]Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grants := make([]Grant, 0, len(s.grants))
	for _, grant := range s.grants {
		grants = append(grants, grant)
	}
	return grants, nil
}

type InMemoryNoticeStore struct {
	mu      sync.RWMutex
	notices map[string]RevocationNotice // keyed by AccessID
}

func NewInMemoryNoticeStore() *InMemoryNoticeStore {
	return &InMemoryNoticeStore{notices: make(map[string]RevocationNotice)}
}

func (s *InMemoryNoticeStore) Save(_ context.Context, notice RevocationNotice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices[notice.AccessID] = notice
	return nil
}

func (s *InMemoryNoticeStore) GetByAccessID(_ context.Context, accessID string) (*RevocationNotice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if notice, exists := s.notices[accessID]; exists {
		return &notice, nil
	}
	return nil, nil
}

func (s *InMemoryNoticeStore) DeleteByAccessID(_ context.Context, accessID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notices, accessID)
	return nil
}

func (s *InMemoryNoticeStore) List(_ context.Context) ([]RevocationNotice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notices := make([]RevocationNotice, 0, len(s.notices))
	for _, notice := range s.notices {
		notices = append(notices, notice)
	}
	return notices, nil
}

type InMemoryRequestStore struct {
	mu       sync.RWMutex
	requests map[string]Request
}

func NewInMemoryRequestStore() *InMemoryRequestStore {
	return &InMemoryRequestStore{requests: make(map[string]Request)}
}

func (s *InMemoryRequestStore) Save(_ context.Context, request Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[request.ID] = request
	return nil
}

func (s *InMemoryRequestStore) Get(_ context.Context, id string) (*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if request, exists := s.requests[id]; exists {
		return &request, nil
	}
	return nil, nil
}

func (s *InMemoryRequestStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.requests, id)
	return nil
}

func (s *InMemoryRequestStore) List(_ context.Context) ([]Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	requests := make([]Request, 0, len(s.requests))
	for _, request := range s.requests {
		requests = append(requests, request)
	}
	return requests, nil
}
