package models

// Product defines the structure for marketplace products.
type Product struct {
	ID          uint    `json:"id_producto" gorm:"primaryKey"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion"`
	Price       float64 `json:"precio"`
	Stock       int     `json:"stock"`
}
