package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Routes    RouteRepository
	Services  ServiceRepository
	Movements CashMovementRepository
	Closings  RouteClosingRepository
	Comments  CommentRepository
}

// TxRunner ejecuta fn dentro de una transacción: commit si fn devuelve nil, rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx TxRepos) error) error
}
