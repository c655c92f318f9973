package repository

import (
	"context"

	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
)

// PushSubscriptionRepository suscripciones Web Push.
type PushSubscriptionRepository interface {
	// Upsert crea o reasigna la suscripción por endpoint.
	Upsert(ctx context.Context, s *entity.PushSubscription) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
	CountByUser(ctx context.Context, userID string) (int, error)
	ListByUsers(ctx context.Context, userIDs []string) ([]*entity.PushSubscription, error)
}
