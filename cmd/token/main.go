// Command token mints an access token for local testing against the API.
//
//	go run ./cmd/token -user 6b0c... -role admin -name "Ops"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/angelmondragon/farmbatch-backend/pkg/auth"
	"github.com/angelmondragon/farmbatch-backend/pkg/config"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "token"})
	_ = godotenv.Load()

	userFlag := flag.String("user", "", "user id (uuid); a random one is generated when empty")
	roleFlag := flag.String("role", string(enums.RoleBuyer), "role: admin|buyer")
	nameFlag := flag.String("name", "", "display name embedded in the token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		logg.Error(context.Background(), "refusing to mint tokens in production", nil)
		os.Exit(1)
	}

	userID := uuid.New()
	if raw := strings.TrimSpace(*userFlag); raw != "" {
		userID, err = uuid.Parse(raw)
		if err != nil {
			logg.Error(context.Background(), "invalid -user", err)
			os.Exit(1)
		}
	}
	role, err := enums.ParseRole(strings.ToLower(strings.TrimSpace(*roleFlag)))
	if err != nil {
		logg.Error(context.Background(), "invalid -role", err)
		os.Exit(1)
	}

	token, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		Name:   strings.TrimSpace(*nameFlag),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to mint token", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "user=%s role=%s expires_in=%s\n", userID, role, cfg.JWT.TTL())
	fmt.Println(token)
}
