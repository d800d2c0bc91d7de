package main

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/haulplan/eld-backend/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("Credential Generator for Haulplan ELD")
	fmt.Println("===========================================")
	fmt.Println()

	jwtSecret, err := utils.GenerateJWTSecret()
	if err != nil {
		log.Fatalf("Failed to generate JWT secret: %v", err)
	}

	apiKey, err := utils.GenerateAPIKey()
	if err != nil {
		log.Fatalf("Failed to generate API key: %v", err)
	}

	apiKeyHash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash API key: %v", err)
	}

	fmt.Println("✅ Credentials generated successfully!")
	fmt.Println()
	fmt.Println("Add these to the server .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", jwtSecret)
	fmt.Printf("API_KEY_HASH=%s\n", string(apiKeyHash))
	fmt.Println()
	fmt.Println("Hand this API key to the dispatch client (it is not stored anywhere):")
	fmt.Println()
	fmt.Printf("API_KEY=%s\n", apiKey)
	fmt.Println()
	fmt.Println("⚠️  IMPORTANT: Keep these safe and never commit them to version control!")
	fmt.Println("===========================================")
}
