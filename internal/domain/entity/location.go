package entity

// Location ubicación física (almacén, planta, lavandería...).
type Location struct {
	ID   string
	Name string
}
