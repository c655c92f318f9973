package entity

import "time"

// RouteClosing snapshot financiero de una ruta. Uno por ruta; solo lo escribe el motor de cierre.
type RouteClosing struct {
	ID               string
	RouteID          string
	TotalServices    int
	TotalCollected   int64
	TotalOutstanding int64
	TotalIncome      int64
	TotalExpenses    int64
	NetResult        int64
	GeneratedBy      string
	GeneratedAt      time.Time
}

// SameTotals compara solo los totales (ignora auditoría).
func (c *RouteClosing) SameTotals(o *RouteClosing) bool {
	return c.TotalServices == o.TotalServices &&
		c.TotalCollected == o.TotalCollected &&
		c.TotalOutstanding == o.TotalOutstanding &&
		c.TotalIncome == o.TotalIncome &&
		c.TotalExpenses == o.TotalExpenses &&
		c.NetResult == o.NetResult
}
