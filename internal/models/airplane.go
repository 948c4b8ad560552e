package models

import "time"

// Airplane is the seat capacity template a flight is seeded from
type Airplane struct {
	ID                 int64     `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	RegistrationNumber string    `json:"registration_number" db:"registration_number"`
	EconomySeats       int       `json:"economy_seats" db:"economy_seats"`
	BusinessSeats      int       `json:"business_seats" db:"business_seats"`
	FirstClassSeats    int       `json:"first_class_seats" db:"first_class_seats"`
	TotalSeat          int       `json:"total_seat" db:"total_seat"`
	Status             string    `json:"status" db:"status"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// SeatsFor returns the configured capacity of a cabin class
func (a *Airplane) SeatsFor(class FlightClass) int {
	switch class {
	case FlightClassBusiness:
		return a.BusinessSeats
	case FlightClassFirst:
		return a.FirstClassSeats
	default:
		return a.EconomySeats
	}
}

// AddAirplaneRequest is the payload of POST /api/airplane/add
type AddAirplaneRequest struct {
	Name               string `json:"name" binding:"required"`
	RegistrationNumber string `json:"registrationNumber" binding:"required"`
	EconomySeats       int    `json:"economySeats" binding:"gte=0"`
	BusinessSeats      int    `json:"businessSeats" binding:"gte=0"`
	FirstClassSeats    int    `json:"firstClassSeats" binding:"gte=0"`
}
