package entity

// Category categoría de artículos. Color en hex (#rrggbb) para el dashboard.
type Category struct {
	ID    string
	Name  string
	Color string
}
