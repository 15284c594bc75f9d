// AngelaMos | 2026
// main.go

// Command devtoken mints ES256 bearer tokens for local development so the
// hub can be exercised without a hosted identity provider.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/angelamos/sitehub/internal/auth"
)

func main() {
	var (
		generate   = flag.Bool("generate-keys", false, "write a new key pair and exit")
		privateKey = flag.String("private-key", "keys/private.pem", "path to the ES256 private key")
		publicKey  = flag.String("public-key", "keys/public.pem", "path to the ES256 public key")
		subject    = flag.String("subject", "", "subject id to embed")
		email      = flag.String("email", "", "email claim to embed")
		issuer     = flag.String("issuer", "sitehub", "iss claim")
		audience   = flag.String("audience", "sitehub-hub", "aud claim")
		ttl        = flag.Duration("ttl", time.Hour, "token lifetime")
	)
	flag.Parse()

	if err := run(*generate, *privateKey, *publicKey, *subject, *email,
		*issuer, *audience, *ttl); err != nil {
		slog.Error("devtoken", "error", err)
		os.Exit(1)
	}
}

func run(
	generate bool,
	privateKey, publicKey, subject, email, issuer, audience string,
	ttl time.Duration,
) error {
	if generate {
		if err := auth.GenerateKeyPair(privateKey, publicKey); err != nil {
			return err
		}
		slog.Info("key pair written", "private", privateKey, "public", publicKey)
		return nil
	}

	if subject == "" {
		return fmt.Errorf("-subject is required")
	}

	iss, err := auth.NewIssuerFromFile(privateKey, issuer, audience)
	if err != nil {
		return err
	}

	token, err := iss.CreateToken(subject, email, ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
