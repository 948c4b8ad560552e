package models

import "time"

// Airport is a departure or arrival location
type Airport struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"code" db:"code"`
	City      string    `json:"city" db:"city"`
	Address   string    `json:"address" db:"address"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AddAirportRequest is the payload of POST /api/airport/add
type AddAirportRequest struct {
	Name    string `json:"name" binding:"required"`
	Code    string `json:"code" binding:"required,len=3"`
	City    string `json:"city" binding:"required"`
	Address string `json:"address"`
}
