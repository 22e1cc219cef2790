// get_token runs the Gmail consent flow once and prints a refresh token
// for GMAIL_REFRESH_TOKEN
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"flightlog-service/internal/infrastructure/config"
	"flightlog-service/internal/infrastructure/oauth"
	"flightlog-service/pkg/logger"

	"github.com/google/uuid"
)

func main() {
	log := logger.NewLogger("info")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if cfg.GmailClientID == "" || cfg.GmailClientSecret == "" {
		log.Fatal("GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET must be set")
	}

	redirect, err := url.Parse(cfg.GmailRedirectURL)
	if err != nil {
		log.Fatal("Invalid GMAIL_REDIRECT_URL", "error", err)
	}

	gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, "", cfg.GmailRedirectURL, log)
	state := uuid.NewString()

	http.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		token, err := gmailOAuth.ExchangeCode(context.Background(), r.URL.Query().Get("code"))
		if err != nil {
			log.Error("Token exchange failed", "error", err)
			http.Error(w, "Failed to exchange code", http.StatusInternalServerError)
			return
		}

		fmt.Printf("\nGMAIL_REFRESH_TOKEN=%s\n\n", token.RefreshToken)
		fmt.Fprintf(w, "Authentication successful! You can close this window.")
		os.Exit(0)
	})

	fmt.Printf("Open this URL in your browser:\n%s\n", gmailOAuth.GenerateAuthURL(state))

	if err := http.ListenAndServe(redirect.Host, nil); err != nil {
		log.Fatal("Callback server error", "error", err)
	}
}
