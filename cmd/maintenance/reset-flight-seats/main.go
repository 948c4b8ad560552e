package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/airlinereservation/booking-backend/internal/config"
	"github.com/airlinereservation/booking-backend/internal/database"
	"github.com/airlinereservation/booking-backend/internal/services"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// reset-flight-seats rebuilds the available seat rows of an unsold flight from its
// airplane's allocation. Flights with booked, waiting or cancelled rows are refused.
func main() {
	var (
		dbURLFlag string
		flightID  int64
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.Int64Var(&flightID, "flight-id", 0, "flight whose seat inventory is rebuilt")
	flag.Parse()

	if flightID <= 0 {
		log.Fatal("-flight-id is required")
	}

	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	flightService := services.NewFlightService(
		db,
		database.NewFlightRepository(db),
		database.NewAirportRepository(db),
		database.NewAirplaneRepository(db),
		database.NewFlightBookingRepository(db),
		nil,
		logger,
	)

	seeded, err := flightService.ResetSeats(context.Background(), flightID)
	if err != nil {
		log.Fatalf("failed to reset seats: %v", err)
	}

	fmt.Printf("Flight %d now has %d available seat rows.\n", flightID, seeded)
}
