package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Load charge le .env local puis, en dev, applique les valeurs par défaut
func Load() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}

	if os.Getenv("APP_ENV") == "" {
		os.Setenv("APP_ENV", "development")
	}
}
