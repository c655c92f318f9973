package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

var _ repository.CommentRepository = (*CommentRepo)(nil)

// CommentRepo comentarios de servicios.
type CommentRepo struct {
	q Querier
}

func NewCommentRepository(q Querier) *CommentRepo {
	return &CommentRepo{q: q}
}

func (r *CommentRepo) Create(ctx context.Context, c *entity.ServiceComment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO service_comments (id, service_id, author_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)`, c.ID, c.ServiceID, c.AuthorID, c.Text, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert service comment: %w", err)
	}
	return nil
}

// ListByService comentarios del servicio, el más reciente primero.
func (r *CommentRepo) ListByService(ctx context.Context, serviceID string) ([]*entity.ServiceComment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT sc.id, sc.service_id, sc.author_id, u.name, sc.text, sc.created_at
		FROM service_comments sc
		JOIN users u ON u.id = sc.author_id
		WHERE sc.service_id = $1
		ORDER BY sc.created_at DESC`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list service comments: %w", err)
	}
	defer rows.Close()

	var list []*entity.ServiceComment
	for rows.Next() {
		var c entity.ServiceComment
		if err := rows.Scan(&c.ID, &c.ServiceID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service comment: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
