package entity

import "time"

// ServiceComment nota dejada por un usuario sobre un servicio.
type ServiceComment struct {
	ID         string
	ServiceID  string
	AuthorID   string
	AuthorName string // JOIN
	Text       string
	CreatedAt  time.Time
}
