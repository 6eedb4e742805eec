package models

// Doctor defines the structure for doctor users. Doctors authenticate through
// an external identity provider, so no credential hash is stored.
type Doctor struct {
	ID            uint    `json:"id_doctor" gorm:"primaryKey"`
	Name          *string `json:"nombre"`
	Email         string  `json:"correo" gorm:"uniqueIndex"`
	ActiveSession bool    `json:"sesion_activa" gorm:"default:false"`
	SessionToken  *string `json:"-"`
}
