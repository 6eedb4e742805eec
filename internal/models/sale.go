package models

import "time"

// Sale records one committed purchase. Rows are immutable once created.
type Sale struct {
	ID        uint      `json:"id_venta" gorm:"primaryKey"`
	UserID    uint      `json:"id_usuario" gorm:"index"`
	AccountID uint      `json:"id_empresa"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"fecha"`
}

// SaleLine records the product detail of a sale.
type SaleLine struct {
	ID        uint    `json:"id_detalle" gorm:"primaryKey"`
	SaleID    uint    `json:"id_venta" gorm:"index"`
	ProductID uint    `json:"id_producto" gorm:"index"`
	Quantity  int     `json:"cantidad"`
	UnitPrice float64 `json:"precio_unitario"`
	Subtotal  float64 `json:"subtotal"`
}
