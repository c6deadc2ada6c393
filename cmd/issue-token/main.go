package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"ride-progress-sim/internal/api"
	"ride-progress-sim/internal/config"
)

func main() {
	subject := flag.String("sub", "ride-cli", "Token subject")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set; the control API accepts requests without a token")
		os.Exit(1)
	}

	tokens := api.NewTokens(cfg.JWTSecret, time.Duration(cfg.JWTExpiryMinutes)*time.Minute)
	token, err := tokens.Generate(*subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating JWT token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Subject: %s\n", *subject)
	fmt.Printf("Expires: %dm\n", cfg.JWTExpiryMinutes)
	fmt.Printf("\nToken:\n%s\n", token)
	fmt.Printf("\nAuthorization: Bearer %s\n", token)
	fmt.Printf("\ncurl -X POST http://localhost%s/v1/ride/animate \\\n", cfg.HTTPAddr)
	fmt.Printf("  -H 'Authorization: Bearer %s'\n", token)
}
