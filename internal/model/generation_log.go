// internal/model/generation_log.go
package model

import "time"

// GenerationLog is one row of the audit trail the worker writes for every
// copy_generated event.
type GenerationLog struct {
	ID          int       `db:"id" json:"id"`
	ResultID    string    `db:"result_id" json:"result_id"`
	ProductName string    `db:"product_name" json:"product_name"`
	Platform    string    `db:"platform" json:"platform"`
	Tone        string    `db:"tone" json:"tone"`
	Payload     string    `db:"payload" json:"payload"`
	GeneratedAt time.Time `db:"generated_at" json:"generated_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
