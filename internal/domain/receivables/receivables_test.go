package receivables

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2026, 6, 30, 15, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time { return asOf.AddDate(0, 0, -n) }

func TestAgeDays(t *testing.T) {
	assert.Equal(t, 0, AgeDays(asOf, asOf))
	assert.Equal(t, 30, AgeDays(daysAgo(30), asOf))
	assert.Equal(t, 0, AgeDays(asOf.AddDate(0, 0, 2), asOf), "fechas futuras cuentan como 0")
}

func TestBuild_AgrupaPorClienteYTramo(t *testing.T) {
	items := []Item{
		{ServiceID: "1", ClientID: "a", ClientName: "Alfa", DepartureDate: daysAgo(5), Outstanding: 30000},
		{ServiceID: "2", ClientID: "a", ClientName: "Alfa", DepartureDate: daysAgo(45), Outstanding: 20000},
		{ServiceID: "3", ClientID: "b", ClientName: "Beta", DepartureDate: daysAgo(75), Outstanding: 25000},
		{ServiceID: "4", ClientID: "c", ClientName: "Gama", DepartureDate: daysAgo(120), Outstanding: 25000},
		{ServiceID: "5", ClientID: "d", ClientName: "Delta", DepartureDate: daysAgo(1), Outstanding: 0},
	}

	r := Build(items, asOf)

	assert.Equal(t, int64(100000), r.Total)
	require.Len(t, r.Clients, 3, "clientes sin saldo no aparecen")
	assert.Equal(t, "Alfa", r.Clients[0].ClientName)
	assert.Equal(t, int64(50000), r.Clients[0].Outstanding)
	assert.Equal(t, 2, r.Clients[0].Services)
	assert.Equal(t, daysAgo(45), r.Clients[0].Oldest)
	assert.Equal(t, "Beta", r.Clients[1].ClientName, "empate por saldo se ordena por nombre")

	require.Len(t, r.Buckets, 4)
	assert.Equal(t, int64(30000), r.Buckets[0].Amount)
	assert.Equal(t, int64(20000), r.Buckets[1].Amount)
	assert.Equal(t, int64(25000), r.Buckets[2].Amount)
	assert.Equal(t, int64(25000), r.Buckets[3].Amount)
	assert.Equal(t, 30.0, r.Buckets[0].Percent)
	assert.Equal(t, 25.0, r.Buckets[3].Percent)
}

func TestBuild_LimitesDeTramo(t *testing.T) {
	items := []Item{
		{ClientID: "a", DepartureDate: daysAgo(30), Outstanding: 1},
		{ClientID: "a", DepartureDate: daysAgo(31), Outstanding: 1},
		{ClientID: "a", DepartureDate: daysAgo(90), Outstanding: 1},
		{ClientID: "a", DepartureDate: daysAgo(91), Outstanding: 1},
	}
	r := Build(items, asOf)
	assert.Equal(t, 1, r.Buckets[0].Count)
	assert.Equal(t, 1, r.Buckets[1].Count)
	assert.Equal(t, 1, r.Buckets[2].Count)
	assert.Equal(t, 1, r.Buckets[3].Count)
}

func TestBuild_TopDiez(t *testing.T) {
	var items []Item
	for i := 0; i < 15; i++ {
		items = append(items, Item{
			ClientID: fmt.Sprintf("c%02d", i), ClientName: fmt.Sprintf("Cliente %02d", i),
			DepartureDate: asOf, Outstanding: int64(1000 * (i + 1)),
		})
	}
	r := Build(items, asOf)
	require.Len(t, r.TopDebtors, TopDebtors)
	assert.Equal(t, int64(15000), r.TopDebtors[0].Outstanding)
	assert.Len(t, r.Clients, 15)
}

func TestBuild_SinCartera(t *testing.T) {
	r := Build(nil, asOf)
	assert.Zero(t, r.Total)
	assert.Empty(t, r.Clients)
	for _, b := range r.Buckets {
		assert.Zero(t, b.Percent)
	}
}
