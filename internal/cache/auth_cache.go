package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"mesob_back_end/internal/database"
)

const (
	AuthCacheTTL = 15 * time.Minute // Cache les vérifications bcrypt du staff
)

// GetPasswordHashFromCache vérifie si la combinaison email/mot de passe
// a déjà été validée récemment, pour éviter un bcrypt à chaque connexion
func GetPasswordHashFromCache(email, password string) bool {
	ctx := context.Background()

	passwordHash := sha256.Sum256([]byte(password))
	cacheKey := "auth:" + email + ":" + hex.EncodeToString(passwordHash[:])

	result, err := database.Redis.Get(ctx, cacheKey).Result()
	return err == nil && result == "valid"
}

// SetPasswordHashInCache mémorise une vérification réussie
func SetPasswordHashInCache(email, password string) {
	ctx := context.Background()

	passwordHash := sha256.Sum256([]byte(password))
	cacheKey := "auth:" + email + ":" + hex.EncodeToString(passwordHash[:])

	database.Redis.Set(ctx, cacheKey, "valid", AuthCacheTTL)
}

// InvalidateAuthCache invalide le cache d'authentification pour un email
func InvalidateAuthCache(email string) {
	ctx := context.Background()

	pattern := "auth:" + email + ":*"
	iter := database.Redis.Scan(ctx, 0, pattern, 100).Iterator()

	for iter.Next(ctx) {
		database.Redis.Del(ctx, iter.Val())
	}
}
