package models

import (
	"strings"
	"time"
)

// FlightClass is the cabin class of a seat row
type FlightClass string

const (
	FlightClassEconomy  FlightClass = "economy"
	FlightClassBusiness FlightClass = "business"
	FlightClassFirst    FlightClass = "first"
)

// AllFlightClasses lists the cabin classes in display order
var AllFlightClasses = []FlightClass{FlightClassEconomy, FlightClassBusiness, FlightClassFirst}

// ParseFlightClass accepts the stored value as well as the display labels
// used by older clients ("Economy", "First Class", ...)
func ParseFlightClass(s string) (FlightClass, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "economy":
		return FlightClassEconomy, true
	case "business":
		return FlightClassBusiness, true
	case "first", "first class", "first_class":
		return FlightClassFirst, true
	}
	return "", false
}

// SeatPrefix is the letter used for seat numbers of this class
func (c FlightClass) SeatPrefix() string {
	switch c {
	case FlightClassBusiness:
		return "B"
	case FlightClassFirst:
		return "F"
	default:
		return "E"
	}
}

// Label is the human readable class name
func (c FlightClass) Label() string {
	switch c {
	case FlightClassBusiness:
		return "Business"
	case FlightClassFirst:
		return "First Class"
	default:
		return "Economy"
	}
}

// FlightBookingStatus represents the status of a seat row
type FlightBookingStatus string

const (
	FlightBookingStatusAvailable FlightBookingStatus = "available"
	FlightBookingStatusConfirmed FlightBookingStatus = "confirmed"
	FlightBookingStatusWaiting   FlightBookingStatus = "waiting"
	FlightBookingStatusCancelled FlightBookingStatus = "cancelled"
	FlightBookingStatusPending   FlightBookingStatus = "pending"
)

// FlightBooking is one seat row of a flight's inventory ledger.
// Status, PassengerID, BookingID and BookingTime are always written together.
type FlightBooking struct {
	ID          int64               `json:"id" db:"id"`
	FlightID    int64               `json:"flight_id" db:"flight_id"`
	FlightClass FlightClass         `json:"flight_class" db:"flight_class"`
	SeatNumber  *string             `json:"seat_number,omitempty" db:"seat_number"`
	Status      FlightBookingStatus `json:"status" db:"status"`
	PassengerID *int64              `json:"passenger_id,omitempty" db:"passenger_id"`
	BookingID   *string             `json:"booking_id,omitempty" db:"booking_id"`
	BookingTime *int64              `json:"booking_time,omitempty" db:"booking_time"` // ms since epoch
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" db:"updated_at"`
}

// FlightBookingDetail is a seat row joined with flight and passenger info for listings and tickets
type FlightBookingDetail struct {
	FlightBooking
	FlightNumber         string    `json:"flight_number" db:"flight_number"`
	DepartureTime        time.Time `json:"departure_time" db:"departure_time"`
	ArrivalTime          time.Time `json:"arrival_time" db:"arrival_time"`
	DepartureAirportName string    `json:"departure_airport" db:"departure_airport"`
	ArrivalAirportName   string    `json:"arrival_airport" db:"arrival_airport"`
	PassengerName        *string   `json:"passenger_name,omitempty" db:"passenger_name"`
	PassengerEmail       *string   `json:"passenger_email,omitempty" db:"passenger_email"`
	SeatFare             float64   `json:"seat_fare" db:"seat_fare"`
}

// AddFlightBookingRequest is the payload of POST /api/flight/book/add
type AddFlightBookingRequest struct {
	FlightID        int64  `json:"flightId"`
	PassengerID     int64  `json:"passengerId"`
	TotalPassengers int    `json:"totalPassengers"`
	FlightClassType string `json:"flightClassType"`
}

// BookingResult summarizes one allocator call
type BookingResult struct {
	BookingID      string          `json:"booking_id"`
	BookingTime    int64           `json:"booking_time"`
	ConfirmedSeats int             `json:"confirmed_seats"`
	WaitingSeats   int             `json:"waiting_seats"`
	AmountCharged  float64         `json:"amount_charged"`
	WalletBalance  float64         `json:"wallet_balance"`
	Rows           []FlightBooking `json:"rows"`
	Message        string          `json:"message"`
}

// FlightSeatDetails reports live availability per class next to the airplane's fixed capacity
type FlightSeatDetails struct {
	FlightID                 int64 `json:"flightId"`
	EconomySeatsAvailable    int   `json:"economySeatsAvailable"`
	EconomySeatsWaiting      int   `json:"economySeatsWaiting"`
	BusinessSeatsAvailable   int   `json:"businessSeatsAvailable"`
	BusinessSeatsWaiting     int   `json:"businessSeatsWaiting"`
	FirstClassSeatsAvailable int   `json:"firstClassSeatsAvailable"`
	FirstClassSeatsWaiting   int   `json:"firstClassSeatsWaiting"`
	EconomySeats             int   `json:"economySeats"`
	BusinessSeats            int   `json:"businessSeats"`
	FirstClassSeats          int   `json:"firstClassSeats"`
	TotalSeat                int   `json:"totalSeat"`
}
