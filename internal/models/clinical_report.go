package models

import "time"

// ClinicalReport is one entry in a patient's clinical history. The latest row
// feeds the client-side PDF renderer.
type ClinicalReport struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PatientID uint      `json:"id_paciente" gorm:"index"`
	Oxygen    int       `json:"oxigenacion"`
	HeartRate int       `json:"frecuencia_cardiaca"`
	Notes     string    `json:"observaciones"`
	CreatedAt time.Time `json:"fecha_registro"`
}
