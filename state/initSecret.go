package state

import (
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/Matches1st/Cord-Disc-Chat/config"
)

func InitSecret() (*JwtSecret, error) {
	privPath := config.Conf.JWT.PrivateKeyPath
	pubPath := config.Conf.JWT.PublicKeyPath
	if privPath == "" {
		privPath = "private.pem"
	}
	if pubPath == "" {
		pubPath = "public.pem"
	}

	privKeyBytes, err := os.ReadFile(privPath)
	if err != nil {
		return nil, err
	}

	pubKeyBytes, err := os.ReadFile(pubPath)
	if err != nil {
		return nil, err
	}

	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}

	log.Info().Msg("JWT secret initialized successfully")
	return &JwtSecret{
		Private: privKey,
		Public:  pubKey,
	}, nil
}
