package entity

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// Coordinates punto geográfico (latitud, longitud) en grados.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Valid indica si la latitud y longitud están en rango.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// String devuelve "lat,lon" con 6 decimales (formato aceptado por Google Maps).
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// HaversineKm distancia en km entre dos puntos sobre la esfera terrestre.
func HaversineKm(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
