// Command generate-secrets prints fresh JWT secrets and a pairing code
// for the navigation backend's .env file.
package main

import (
	"fmt"
	"log"

	"github.com/flickmobile/navigation-backend/internal/utils"
)

func main() {
	accessSecret, refreshSecret, err := utils.GenerateJWTSecrets()
	if err != nil {
		log.Fatalf("Failed to generate JWT secrets: %v", err)
	}

	pairingCode, err := utils.GeneratePairingCode(6)
	if err != nil {
		log.Fatalf("Failed to generate pairing code: %v", err)
	}

	fmt.Println("# Add these to your .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", accessSecret)
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", refreshSecret)
	fmt.Printf("PAIRING_CODE=%s\n", pairingCode)
	fmt.Println()
	fmt.Println("# Enter the pairing code on the shell when prompted.")
}
