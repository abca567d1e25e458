package cache

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"mesob_back_end/internal/database"

	"github.com/redis/go-redis/v9"
)

var ctx = context.Background()

// --- Refresh Tokens ---

// StoreRefreshToken stocke un refresh token pour un compte
func StoreRefreshToken(accountID, refreshToken string, duration time.Duration) error {
	key := fmt.Sprintf("refresh:%s", accountID)
	return database.Redis.Set(ctx, key, refreshToken, duration).Err()
}

// GetRefreshToken récupère le refresh token d'un compte
func GetRefreshToken(accountID string) (string, error) {
	key := fmt.Sprintf("refresh:%s", accountID)
	return database.Redis.Get(ctx, key).Result()
}

// DeleteRefreshToken supprime le refresh token (logout)
func DeleteRefreshToken(accountID string) error {
	key := fmt.Sprintf("refresh:%s", accountID)
	return database.Redis.Del(ctx, key).Err()
}

// --- Codes OTP (connexion client par téléphone) ---

const (
	OTPTTL       = 5 * time.Minute
	otpKeyPrefix = "otp:"
)

// GenerateOTP crée un code à 6 chiffres et le stocke avec TTL
func GenerateOTP(phoneNumber string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	key := otpKeyPrefix + phoneNumber
	if err := database.Redis.Set(ctx, key, code, OTPTTL).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// VerifyOTP compare le code soumis et le consomme si valide.
// Un code ne sert qu'une fois.
func VerifyOTP(phoneNumber, code string) bool {
	key := otpKeyPrefix + phoneNumber
	stored, err := database.Redis.Get(ctx, key).Result()
	if err != nil || stored == "" || stored != code {
		return false
	}
	database.Redis.Del(ctx, key)
	return true
}

// --- Idempotence (création de commande) ---

const IdempotencyTTL = 24 * time.Hour

// StoreIdempotentOrder mémorise la commande créée pour une clé client
func StoreIdempotentOrder(key, orderID string) error {
	return database.Redis.Set(ctx, "idem:order:"+key, orderID, IdempotencyTTL).Err()
}

// GetIdempotentOrder renvoie l'id de commande déjà créée pour cette clé
func GetIdempotentOrder(key string) (string, bool) {
	orderID, err := database.Redis.Get(ctx, "idem:order:"+key).Result()
	if err != nil || orderID == "" {
		return "", false
	}
	return orderID, true
}

// --- Cache statut de paiement (lu par le sondage client) ---

const PaymentStatusTTL = 5 * time.Minute

func SetPaymentStatus(paymentID, status string) {
	if err := database.Redis.Set(ctx, "payment_status:"+paymentID, status, PaymentStatusTTL).Err(); err != nil {
		log.Printf("⚠️ Erreur cache statut paiement %s: %v", paymentID, err)
	}
}

func GetPaymentStatus(paymentID string) (string, bool) {
	status, err := database.Redis.Get(ctx, "payment_status:"+paymentID).Result()
	if err != nil || status == "" {
		return "", false
	}
	return status, true
}

// --- Newsletter ---

// AddNewsletterEmail ajoute un email à la liste (set Redis, pas de doublon)
func AddNewsletterEmail(email string) (bool, error) {
	added, err := database.Redis.SAdd(ctx, "newsletter:emails", email).Result()
	if err != nil {
		return false, err
	}
	return added > 0, nil
}

// --- Rate Limiting Global ---

// IncrementRateLimit incrémente le compteur de rate limit
func IncrementRateLimit(key string, window time.Duration) (int64, error) {
	pipe := database.Redis.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// GetRateLimit récupère le compteur de rate limit
func GetRateLimit(key string) (int64, error) {
	val, err := database.Redis.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
