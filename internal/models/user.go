package models

// User defines the structure for patient accounts.
// JSON keys keep the wire format the existing frontend expects.
type User struct {
	ID            uint    `json:"id_usuario" gorm:"primaryKey"`
	FirstName     string  `json:"nombre"`
	LastName      string  `json:"apellido"`
	Email         string  `json:"correo" gorm:"uniqueIndex"`
	Password      string  `json:"-"`
	Gender        *string `json:"genero"`
	Age           *int    `json:"edad"`
	ActiveSession bool    `json:"sesion_activa" gorm:"default:false"`
	SessionToken  *string `json:"-"`
}
