package models

import "time"

// VitalRecord mirrors one reading ingested from the device feed.
type VitalRecord struct {
	ID     uint      `json:"-" gorm:"primaryKey"`
	BPM    int       `json:"bpm"`
	SpO2   int       `json:"spo2"`
	Status string    `json:"estado"`
	Date   time.Time `json:"fecha" gorm:"index"`
	Hour   string    `json:"hora"`
}
