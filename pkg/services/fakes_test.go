package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Fakes en memoria que satisfacen Store, Poster y Broadcaster

type fakeStore struct {
	mu    sync.Mutex
	kv    map[string]string
	sets  map[string]map[string]bool
	lists map[string][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		kv:    map[string]string{},
		sets:  map[string]map[string]bool{},
		lists: map[string][]string{},
	}
}

func (s *fakeStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.kv[key]
	if !ok {
		return "", fmt.Errorf("clave %s no encontrada", key)
	}
	return value, nil
}

func (s *fakeStore) Set(key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = value
	return nil
}

func (s *fakeStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, key)
	return nil
}

func (s *fakeStore) AddToSet(key, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sets[key] == nil {
		s.sets[key] = map[string]bool{}
	}
	s.sets[key][member] = true
	return nil
}

func (s *fakeStore) RemoveFromSet(key, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sets[key] != nil {
		delete(s.sets[key], member)
	}
	return nil
}

func (s *fakeStore) GetSetMembers(key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var members []string
	for member := range s.sets[key] {
		members = append(members, member)
	}
	return members, nil
}

func (s *fakeStore) PushToList(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append(s.lists[key], value)
	return nil
}

func (s *fakeStore) GetList(key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lists[key]...), nil
}

type posterCall struct {
	URL     string
	Payload interface{}
}

type fakePoster struct {
	mu      sync.Mutex
	calls   []posterCall
	err     error
	respond func(url string, payload interface{}, out interface{}) error
}

func (p *fakePoster) PostJSON(url string, payload interface{}, out interface{}) error {
	p.mu.Lock()
	p.calls = append(p.calls, posterCall{URL: url, Payload: payload})
	p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if p.respond != nil {
		return p.respond(url, payload, out)
	}
	return nil
}

func (p *fakePoster) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *fakePoster) lastCall() (posterCall, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.calls) == 0 {
		return posterCall{}, false
	}
	return p.calls[len(p.calls)-1], true
}

// respondJSON arma un respond que devuelve siempre el mismo cuerpo
func respondJSON(body interface{}) func(string, interface{}, interface{}) error {
	return func(_ string, _ interface{}, out interface{}) error {
		if out == nil {
			return nil
		}
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, out)
	}
}

type hubEvent struct {
	Type      string
	SessionID string
	Value     int
}

type fakeHub struct {
	mu     sync.Mutex
	events []hubEvent
}

func (h *fakeHub) BroadcastTimerTick(sessionID string, remaining int) {
	h.record(hubEvent{Type: "timerTick", SessionID: sessionID, Value: remaining})
}

func (h *fakeHub) BroadcastAutoAdvance(sessionID string, activeIndex int) {
	h.record(hubEvent{Type: "autoAdvance", SessionID: sessionID, Value: activeIndex})
}

func (h *fakeHub) BroadcastSubmitted(sessionID string, _ interface{}) {
	h.record(hubEvent{Type: "sessionSubmitted", SessionID: sessionID})
}

func (h *fakeHub) record(event hubEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *fakeHub) hasEvent(eventType string, sessionID string, value int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.events {
		if e.Type == eventType && e.SessionID == sessionID && e.Value == value {
			return true
		}
	}
	return false
}
