package models

import (
	"time"
)

// FlightStatus represents the operational status of a flight
type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusDelayed   FlightStatus = "delayed"
	FlightStatusDeparted  FlightStatus = "departed"
	FlightStatusCompleted FlightStatus = "completed"
	FlightStatusCancelled FlightStatus = "cancelled"
)

// AllFlightStatuses lists every status an admin may set
var AllFlightStatuses = []FlightStatus{
	FlightStatusScheduled,
	FlightStatusDelayed,
	FlightStatusDeparted,
	FlightStatusCompleted,
	FlightStatusCancelled,
}

// IsValid reports whether s is a known flight status
func (s FlightStatus) IsValid() bool {
	for _, status := range AllFlightStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Flight is a scheduled flight with a fare per cabin class
type Flight struct {
	ID                 int64        `json:"id" db:"id"`
	FlightNumber       string       `json:"flight_number" db:"flight_number"`
	AirplaneID         int64        `json:"airplane_id" db:"airplane_id"`
	DepartureAirportID int64        `json:"departure_airport_id" db:"departure_airport_id"`
	ArrivalAirportID   int64        `json:"arrival_airport_id" db:"arrival_airport_id"`
	DepartureTime      time.Time    `json:"departure_time" db:"departure_time"`
	ArrivalTime        time.Time    `json:"arrival_time" db:"arrival_time"`
	EconomySeatFare    float64      `json:"economy_seat_fare" db:"economy_seat_fare"`
	BusinessSeatFare   float64      `json:"business_seat_fare" db:"business_seat_fare"`
	FirstClassSeatFare float64      `json:"first_class_seat_fare" db:"first_class_seat_fare"`
	Status             FlightStatus `json:"status" db:"status"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at" db:"updated_at"`
}

// FareFor returns the per-seat fare of a cabin class
func (f *Flight) FareFor(class FlightClass) (float64, bool) {
	switch class {
	case FlightClassEconomy:
		return f.EconomySeatFare, true
	case FlightClassBusiness:
		return f.BusinessSeatFare, true
	case FlightClassFirst:
		return f.FirstClassSeatFare, true
	}
	return 0, false
}

// FlightWithDetails includes airport and airplane names for listings
type FlightWithDetails struct {
	Flight
	DepartureAirportName string `json:"departure_airport" db:"departure_airport"`
	DepartureAirportCode string `json:"departure_airport_code" db:"departure_airport_code"`
	ArrivalAirportName   string `json:"arrival_airport" db:"arrival_airport"`
	ArrivalAirportCode   string `json:"arrival_airport_code" db:"arrival_airport_code"`
	AirplaneName         string `json:"airplane_name" db:"airplane_name"`
}

// AddFlightRequest is the payload of POST /api/flight/add
type AddFlightRequest struct {
	FlightNumber       string    `json:"flightNumber" binding:"required"`
	AirplaneID         int64     `json:"airplaneId" binding:"required"`
	DepartureAirportID int64     `json:"departureAirportId" binding:"required"`
	ArrivalAirportID   int64     `json:"arrivalAirportId" binding:"required"`
	DepartureTime      time.Time `json:"departureTime" binding:"required"`
	ArrivalTime        time.Time `json:"arrivalTime" binding:"required"`
	EconomySeatFare    float64   `json:"economySeatFare" binding:"gte=0"`
	BusinessSeatFare   float64   `json:"businessSeatFare" binding:"gte=0"`
	FirstClassSeatFare float64   `json:"firstClassSeatFare" binding:"gte=0"`
}

// UpdateFlightStatusRequest is the payload of PUT /api/flight/update/status
type UpdateFlightStatusRequest struct {
	FlightID int64  `json:"flightId" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

// FlightSearchCriteria filters the public flight search
type FlightSearchCriteria struct {
	DepartureAirportID int64
	ArrivalAirportID   int64
	Date               *time.Time
}
