package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"strings"
)

var (
	ErrMissingSignature = errors.New("signature manquante")
	ErrInvalidSignature = errors.New("signature invalide")
)

// Mode de vérification, choisi au démarrage et plus jamais modifié.
// Le mode Disabled (pas de secret configuré) laisse tout passer,
// c'est un confort de développement assumé, pas un défaut silencieux.
type Mode int

const (
	ModeDisabled Mode = iota
	ModeEnforced
)

func (m Mode) String() string {
	if m == ModeEnforced {
		return "enforced"
	}
	return "disabled"
}

// Verifier vérifie la signature HMAC-SHA256 des webhooks d'un provider.
// La signature est calculée sur le corps brut de la requête, jamais sur
// du JSON re-sérialisé, pour éviter les écarts d'ordre des clés.
type Verifier struct {
	Provider string
	Headers  []string // headers candidats, testés dans l'ordre
	secret   []byte
	mode     Mode
}

// NewVerifier construit un Verifier ; un secret vide = mode Disabled
func NewVerifier(provider, secret string, headers ...string) *Verifier {
	v := &Verifier{
		Provider: provider,
		Headers:  headers,
		secret:   []byte(secret),
		mode:     ModeEnforced,
	}
	if secret == "" {
		v.mode = ModeDisabled
		log.Printf("⚠️ Webhook %s : aucun secret configuré, vérification de signature DÉSACTIVÉE", provider)
	} else {
		log.Printf("✅ Webhook %s : vérification de signature active", provider)
	}
	return v
}

func (v *Verifier) Mode() Mode {
	return v.mode
}

// Signature extrait le header de signature de la requête
func (v *Verifier) Signature(r *http.Request) string {
	for _, h := range v.Headers {
		if s := strings.TrimSpace(r.Header.Get(h)); s != "" {
			return s
		}
	}
	return ""
}

// Check compare la signature reçue au HMAC-SHA256 du corps brut,
// en temps constant. Toujours OK en mode Disabled.
func (v *Verifier) Check(signature string, rawBody []byte) error {
	if v.mode == ModeDisabled {
		return nil
	}
	if signature == "" {
		return ErrMissingSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(rawBody)
	computed := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(computed), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
