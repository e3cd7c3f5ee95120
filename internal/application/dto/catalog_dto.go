package dto

// CreateCategoryRequest body de POST /api/categories. Color vacío elige uno de la paleta.
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryResponse categoría.
type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CreateLocationRequest body de POST /api/locations.
type CreateLocationRequest struct {
	Name string `json:"name"`
}

// LocationResponse ubicación.
type LocationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
