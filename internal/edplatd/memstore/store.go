// Package memstore keeps videos, access codes and activations in memory.
// It backs tests and the server's memory store driver, and enforces the
// same uniqueness and atomicity rules as the PostgreSQL repositories.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/activation"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/code"
)

type pairKey struct {
	videoID uuid.UUID
	userID  string
}

// Store holds every entity behind a single lock
type Store struct {
	mu sync.Mutex

	videos      map[uuid.UUID]*catalog.Video
	videoKeys   map[catalog.KeyParts]uuid.UUID
	codes       map[uuid.UUID]*code.AccessCode
	codeTokens  map[string]uuid.UUID
	activations map[uuid.UUID]*activation.Activation
	pairs       map[pairKey]uuid.UUID
}

// New creates an empty store
func New() *Store {
	return &Store{
		videos:      make(map[uuid.UUID]*catalog.Video),
		videoKeys:   make(map[catalog.KeyParts]uuid.UUID),
		codes:       make(map[uuid.UUID]*code.AccessCode),
		codeTokens:  make(map[string]uuid.UUID),
		activations: make(map[uuid.UUID]*activation.Activation),
		pairs:       make(map[pairKey]uuid.UUID),
	}
}

// Videos returns the catalog repository view of the store
func (s *Store) Videos() catalog.Repository { return videoRepo{s} }

// Codes returns the access code repository view of the store
func (s *Store) Codes() code.Repository { return codeRepo{s} }

// Activations returns the activation repository view of the store
func (s *Store) Activations() activation.Repository { return activationRepo{s} }

// Values are copied on the way in and out so callers never share state
// with the store.

func cloneVideo(v *catalog.Video) *catalog.Video {
	c := *v
	return &c
}

func cloneCode(c *code.AccessCode) *code.AccessCode {
	out := *c
	if c.ExpiresAt != nil {
		t := *c.ExpiresAt
		out.ExpiresAt = &t
	}
	return &out
}

func cloneActivation(a *activation.Activation) *activation.Activation {
	c := *a
	return &c
}

type videoRepo struct{ s *Store }

func (r videoRepo) Create(ctx context.Context, v *catalog.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := v.Key.Parts()
	if _, ok := r.s.videoKeys[k]; ok {
		return catalog.ErrVideoExists
	}
	r.s.videos[v.ID] = cloneVideo(v)
	r.s.videoKeys[k] = v.ID
	return nil
}

func (r videoRepo) FindByKey(ctx context.Context, key catalog.Key) (*catalog.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.videoKeys[key.Parts()]
	if !ok {
		return nil, catalog.ErrVideoNotFound
	}
	return cloneVideo(r.s.videos[id]), nil
}

func (r videoRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.videos[id]
	if !ok {
		return nil, catalog.ErrVideoNotFound
	}
	return cloneVideo(v), nil
}

func (r videoRepo) Update(ctx context.Context, v *catalog.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.videoKeys[v.Key.Parts()]
	if !ok {
		return catalog.ErrVideoNotFound
	}
	stored := r.s.videos[id]
	stored.Title = v.Title
	stored.Description = v.Description
	stored.URL = v.URL
	stored.YouTubeCode = v.YouTubeCode
	stored.UpdatedAt = v.UpdatedAt
	return nil
}

// DeleteByKey also removes the video's activations, matching the cascading
// foreign key in PostgreSQL
func (r videoRepo) DeleteByKey(ctx context.Context, key catalog.Key) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := key.Parts()
	id, ok := r.s.videoKeys[k]
	if !ok {
		return catalog.ErrVideoNotFound
	}
	delete(r.s.videoKeys, k)
	delete(r.s.videos, id)

	for aid, a := range r.s.activations {
		if a.VideoID == id {
			r.s.deleteActivationLocked(aid)
		}
	}
	return nil
}

func (r videoRepo) List(ctx context.Context) ([]*catalog.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*catalog.Video, 0, len(r.s.videos))
	for _, v := range r.s.videos {
		out = append(out, cloneVideo(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Path() < out[j].Key.Path() })
	return out, nil
}

type codeRepo struct{ s *Store }

func (r codeRepo) Create(ctx context.Context, c *code.AccessCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.codeTokens[c.Code]; ok {
		return code.ErrCodeExists
	}
	r.s.codes[c.ID] = cloneCode(c)
	r.s.codeTokens[c.Code] = c.ID
	return nil
}

func (r codeRepo) FindByToken(ctx context.Context, token string) (*code.AccessCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.codeTokens[token]
	if !ok {
		return nil, code.ErrCodeNotFound
	}
	return cloneCode(r.s.codes[id]), nil
}

func (r codeRepo) FindByID(ctx context.Context, id uuid.UUID) (*code.AccessCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.codes[id]
	if !ok {
		return nil, code.ErrCodeNotFound
	}
	return cloneCode(c), nil
}

func (r codeRepo) List(ctx context.Context) ([]*code.AccessCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*code.AccessCode, 0, len(r.s.codes))
	for _, c := range r.s.codes {
		out = append(out, cloneCode(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type activationRepo struct{ s *Store }

func (r activationRepo) Redeem(ctx context.Context, a *activation.Activation, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.videos[a.VideoID]; !ok {
		return catalog.ErrVideoNotFound
	}

	c, ok := r.s.codes[a.CodeID]
	if !ok || c.CheckRedeemable(now) != nil {
		return activation.ErrInvalidCode
	}

	pair := pairKey{videoID: a.VideoID, userID: a.UserID}
	if id, ok := r.s.pairs[pair]; ok {
		if existing := r.s.activations[id]; existing.ExpiresAt.Before(now) {
			r.s.deleteActivationLocked(id)
		} else {
			return activation.ErrAlreadyActive
		}
	}

	c.Used = true
	r.s.activations[a.ID] = cloneActivation(a)
	r.s.pairs[pair] = a.ID
	return nil
}

func (r activationRepo) FindByVideoAndUser(ctx context.Context, videoID uuid.UUID, userID string) (*activation.Activation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.pairs[pairKey{videoID: videoID, userID: userID}]
	if !ok {
		return nil, activation.ErrActivationNotFound
	}
	return cloneActivation(r.s.activations[id]), nil
}

func (r activationRepo) FindByCode(ctx context.Context, codeID uuid.UUID) (*activation.Activation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.activations {
		if a.CodeID == codeID {
			return cloneActivation(a), nil
		}
	}
	return nil, activation.ErrActivationNotFound
}

func (r activationRepo) ListByUser(ctx context.Context, userID string) ([]*activation.Activation, error) {
	return r.s.listActivations(func(a *activation.Activation) bool { return a.UserID == userID }), nil
}

func (r activationRepo) List(ctx context.Context) ([]*activation.Activation, error) {
	return r.s.listActivations(func(*activation.Activation) bool { return true }), nil
}

func (r activationRepo) DeleteByVideoAndUser(ctx context.Context, videoID uuid.UUID, userID string) (*activation.Activation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.pairs[pairKey{videoID: videoID, userID: userID}]
	if !ok {
		return nil, activation.ErrActivationNotFound
	}
	a := r.s.activations[id]
	r.s.deleteActivationLocked(id)
	return a, nil
}

func (r activationRepo) DeleteExpired(ctx context.Context, now time.Time) ([]*activation.Activation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var removed []*activation.Activation
	for id, a := range r.s.activations {
		if a.ExpiresAt.Before(now) {
			removed = append(removed, a)
			r.s.deleteActivationLocked(id)
		}
	}
	return removed, nil
}

func (s *Store) listActivations(keep func(*activation.Activation) bool) []*activation.Activation {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*activation.Activation
	for _, a := range s.activations {
		if keep(a) {
			out = append(out, cloneActivation(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActivatedAt.Before(out[j].ActivatedAt) })
	return out
}

// deleteActivationLocked removes an activation and its pair index; s.mu must be held
func (s *Store) deleteActivationLocked(id uuid.UUID) {
	a, ok := s.activations[id]
	if !ok {
		return
	}
	delete(s.activations, id)
	delete(s.pairs, pairKey{videoID: a.VideoID, userID: a.UserID})
}
