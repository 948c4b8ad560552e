package main

import (
	"fmt"
	"log"

	"github.com/airlinereservation/booking-backend/internal/utils"
)

// generate-secrets prints fresh JWT signing secrets for the booking backend's .env
func main() {
	secrets, err := utils.GenerateJWTSecrets()
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	for _, line := range secrets.EnvLines() {
		fmt.Println(line)
	}
	fmt.Println()
	fmt.Println("Keep these secrets out of version control.")
}
