package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/models"
)

// ImageSigner transforme les références d'images produit stockées dans
// MinIO en URLs signées. Une URL http(s) complète est laissée telle quelle.
type ImageSigner struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	log    *zap.Logger
}

// NewImageSigner accepte un client nil : les références sont alors renvoyées
// sans signature.
func NewImageSigner(client *minio.Client, bucket string, expiry time.Duration, log *zap.Logger) *ImageSigner {
	return &ImageSigner{client: client, bucket: bucket, expiry: expiry, log: log}
}

// SignedURL renvoie l'URL à afficher pour une référence d'image.
func (s *ImageSigner) SignedURL(ctx context.Context, ref string) string {
	if ref == "" || s == nil || s.client == nil || isAbsoluteURL(ref) {
		return ref
	}

	key := strings.TrimPrefix(strings.TrimPrefix(ref, "/"), s.bucket+"/")
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, make(url.Values))
	if err != nil {
		s.log.Warn("⚠️ Signature image impossible", zap.String("key", key), zap.Error(err))
		return ""
	}
	return presigned.String()
}

// SignProducts remplace ImageURL de chaque produit par son URL d'affichage.
func (s *ImageSigner) SignProducts(ctx context.Context, products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	for i, p := range products {
		p.ImageURL = s.SignedURL(ctx, p.ImageURL)
		out[i] = p
	}
	return out
}

// SignItems fait de même pour le produit joint de chaque ligne de panier.
func (s *ImageSigner) SignItems(ctx context.Context, items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	for i, item := range items {
		item.Product.ImageURL = s.SignedURL(ctx, item.Product.ImageURL)
		out[i] = item
	}
	return out
}

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
