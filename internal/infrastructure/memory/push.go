package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

var _ repository.PushSubscriptionRepository = (*PushSubscriptionRepo)(nil)

// PushSubscriptionRepo suscripciones en memoria, únicas por endpoint.
type PushSubscriptionRepo struct{ s *Store }

func NewPushSubscriptionRepository(s *Store) *PushSubscriptionRepo {
	return &PushSubscriptionRepo{s: s}
}

func (r *PushSubscriptionRepo) Upsert(_ context.Context, sub *entity.PushSubscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if prev, ok := r.s.subs[sub.Endpoint]; ok {
		prev.UserID, prev.P256dh, prev.Auth, prev.UserAgent = sub.UserID, sub.P256dh, sub.Auth, sub.UserAgent
		r.s.subs[sub.Endpoint] = prev
		return nil
	}
	r.s.subs[sub.Endpoint] = *sub
	return nil
}

func (r *PushSubscriptionRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for ep, sub := range r.s.subs {
		if sub.UserID == userID {
			delete(r.s.subs, ep)
			n++
		}
	}
	return n, nil
}

func (r *PushSubscriptionRepo) DeleteByEndpoint(_ context.Context, endpoint string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.subs, endpoint)
	return nil
}

func (r *PushSubscriptionRepo) CountByUser(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, sub := range r.s.subs {
		if sub.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *PushSubscriptionRepo) ListByUsers(_ context.Context, userIDs []string) ([]*entity.PushSubscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.PushSubscription
	for _, sub := range r.s.subs {
		if contains(userIDs, sub.UserID) {
			sub := sub
			list = append(list, &sub)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Endpoint < list[j].Endpoint })
	return list, nil
}
