package dto

// ClientRequest alta o edición de cliente.
type ClientRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Contact string `json:"contact" validate:"max=200"`
	Phone   string `json:"phone" validate:"max=40"`
	Address string `json:"address" validate:"max=300"`
	Active  *bool  `json:"active"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Active  bool   `json:"active"`
}

// VehicleRequest alta o edición de vehículo.
type VehicleRequest struct {
	Plate  string `json:"plate" validate:"required,min=3,max=12"`
	Brand  string `json:"brand" validate:"max=80"`
	Model  string `json:"model" validate:"max=80"`
	Active *bool  `json:"active"`
}

// VehicleResponse salida de un vehículo.
type VehicleResponse struct {
	ID     string `json:"id"`
	Plate  string `json:"plate"`
	Brand  string `json:"brand"`
	Model  string `json:"model"`
	Active bool   `json:"active"`
}
