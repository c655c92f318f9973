package entity

import "time"

// PushSubscription suscripción Web Push de un navegador. El endpoint es único.
type PushSubscription struct {
	ID        string
	UserID    string
	Endpoint  string
	P256dh    string
	Auth      string
	UserAgent string
	CreatedAt time.Time
}
