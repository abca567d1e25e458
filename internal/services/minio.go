package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"mesob_back_end/internal/database"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const MenuImagesBucket = "menu-images"

// UploadMenuImage stocke la photo d'un plat dans MinIO et renvoie son
// URL publique. Le nom de fichier est régénéré pour éviter les collisions.
func UploadMenuImage(file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectName := uuid.NewString() + filepath.Ext(file.Filename)

	_, err = database.MinIO.PutObject(context.Background(), MenuImagesBucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("http://%s/%s/%s", os.Getenv("MINIO_ENDPOINT"), MenuImagesBucket, objectName), nil
}

// PresignedMenuImageURL génère une URL d'accès temporaire, pour les
// buckets non publics
func PresignedMenuImageURL(objectName string, expiry time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	u, err := database.MinIO.PresignedGetObject(context.Background(), MenuImagesBucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// DeleteMenuImage retire l'objet du bucket
func DeleteMenuImage(objectName string) error {
	if database.MinIO == nil {
		return fmt.Errorf("MinIO non initialisé")
	}
	return database.MinIO.RemoveObject(context.Background(), MenuImagesBucket, objectName,
		minio.RemoveObjectOptions{})
}
