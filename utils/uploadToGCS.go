package utils

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// getGoogleClient initializes a Google Cloud Storage client
func getGoogleClient(ctx context.Context) (*storage.Client, error) {
	// Prefer ADC (Cloud Run service account / GOOGLE_APPLICATION_CREDENTIALS).
	// If you need to provide explicit JSON (e.g. locally), set GCS_CREDENTIALS_JSON.
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		client, err := storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// UploadOptions mirrors the storage gateway contract: contentType,
// cacheControl and upsert are caller-controlled per object.
type UploadOptions struct {
	ContentType  string
	CacheControl string
	Upsert       bool
}

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"text/html":       true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/svg+xml":   true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// UploadObject stores the blob under objectKey and returns the stored path.
// Object keys are namespaced accountId/entity/documentId by the callers.
func UploadObject(ctx context.Context, objectKey string, content io.Reader, opts UploadOptions) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read file content: %v", err)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !allowedMimeTypes[contentType] {
		return "", fmt.Errorf("unsupported file type: %s", contentType)
	}

	bucketName := os.Getenv("GCS_BUCKET")
	if bucketName == "" {
		return "", errors.New("GCS_BUCKET is required")
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	obj := client.Bucket(bucketName).Object(objectKey)
	if !opts.Upsert {
		// Precondition: fail instead of silently replacing an existing object.
		obj = obj.If(storage.Conditions{DoesNotExist: true})
	}

	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	if opts.CacheControl != "" {
		wc.CacheControl = opts.CacheControl
	}

	if _, err = wc.Write(data); err != nil {
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}

	return objectKey, nil
}

// SaveImageToGCS uploads a base64-encoded image (brand logos) under objectKey.
func SaveImageToGCS(ctx context.Context, objectKey, imageData string) error {
	decodedData, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return err
	}
	bucketName := os.Getenv("GCS_BUCKET")
	if bucketName == "" {
		return errors.New("GCS_BUCKET is required")
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if _, err := client.Bucket(bucketName).Attrs(ctx); err != nil {
		return fmt.Errorf("gcs bucket %q not found or not accessible: %v", bucketName, err)
	}

	contentType := http.DetectContentType(decodedData)
	wc := client.Bucket(bucketName).Object(objectKey).NewWriter(ctx)
	wc.ContentType = contentType
	wc.Metadata = map[string]string{
		"x-goog-acl": "public-read",
	}

	if _, err = wc.Write(decodedData); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}

	return nil
}

// DeleteObject removes objectKey from the bucket. Missing objects are not errors.
func DeleteObject(ctx context.Context, objectKey string) error {
	bucketName := os.Getenv("GCS_BUCKET")
	if bucketName == "" {
		return errors.New("GCS_BUCKET is required")
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	err = client.Bucket(bucketName).Object(objectKey).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	return err
}
