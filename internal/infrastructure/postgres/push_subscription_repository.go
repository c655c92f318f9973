package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

var _ repository.PushSubscriptionRepository = (*PushSubscriptionRepo)(nil)

// PushSubscriptionRepo suscripciones Web Push.
type PushSubscriptionRepo struct {
	q Querier
}

func NewPushSubscriptionRepository(q Querier) *PushSubscriptionRepo {
	return &PushSubscriptionRepo{q: q}
}

// Upsert registra la suscripción; si el endpoint ya existe se reasigna al usuario y se renuevan las claves.
func (r *PushSubscriptionRepo) Upsert(ctx context.Context, s *entity.PushSubscription) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO push_subscriptions (id, user_id, endpoint, p256dh, auth, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (endpoint) DO UPDATE SET
			user_id = EXCLUDED.user_id, p256dh = EXCLUDED.p256dh,
			auth = EXCLUDED.auth, user_agent = EXCLUDED.user_agent`,
		s.ID, s.UserID, s.Endpoint, s.P256dh, s.Auth, s.UserAgent, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert push subscription: %w", err)
	}
	return nil
}

func (r *PushSubscriptionRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM push_subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete push subscriptions: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *PushSubscriptionRepo) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM push_subscriptions WHERE endpoint = $1`, endpoint); err != nil {
		return fmt.Errorf("delete push subscription by endpoint: %w", err)
	}
	return nil
}

func (r *PushSubscriptionRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM push_subscriptions WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count push subscriptions: %w", err)
	}
	return n, nil
}

// ListByUsers suscripciones de un conjunto de usuarios.
func (r *PushSubscriptionRepo) ListByUsers(ctx context.Context, userIDs []string) ([]*entity.PushSubscription, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, endpoint, p256dh, auth, user_agent, created_at
		FROM push_subscriptions WHERE user_id::text = ANY($1::text[])`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list push subscriptions: %w", err)
	}
	defer rows.Close()

	var list []*entity.PushSubscription
	for rows.Next() {
		var s entity.PushSubscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.Endpoint, &s.P256dh, &s.Auth, &s.UserAgent, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan push subscription: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
