package models

// CompanyAccount holds the purchase balance for a patient. One row per user;
// the balance is never observed negative after a committed purchase.
type CompanyAccount struct {
	ID            uint    `json:"id_empresa" gorm:"primaryKey"`
	UserID        uint    `json:"id_usuario" gorm:"uniqueIndex"`
	AccountNumber string  `json:"numero_cuenta"`
	Balance       float64 `json:"saldo"`
}
