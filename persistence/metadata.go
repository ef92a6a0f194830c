package persistence

import (
	"context"
	"log/slog"

	"github.com/halcyonlabs/objstore-encryption/envelope"
	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// MetadataHandler embeds crypto material in the encrypted object's own
// metadata entries. No side objects are created.
type MetadataHandler struct {
	log *slog.Logger
}

// NewMetadataHandler creates the metadata-embedded strategy.
func NewMetadataHandler(log *slog.Logger) *MetadataHandler {
	return &MetadataHandler{log: log}
}

// StoreMaterial folds the material's fields into the metadata that will
// accompany the object put. The store is not contacted.
func (h *MetadataHandler) StoreMaterial(ctx context.Context, store interfaces.ObjectStore, objectKey string, material *envelope.ContentCryptoMaterial, objectMetadata interfaces.ObjectMetadata) (interfaces.ObjectMetadata, error) {
	fields, err := encodeFields(material)
	if err != nil {
		return nil, err
	}

	merged := objectMetadata.Clone()
	if merged == nil {
		merged = interfaces.ObjectMetadata{}
	}
	for k, v := range fields {
		merged[k] = v
	}

	h.log.Debug("Embedded crypto material in object metadata",
		slog.String("key", objectKey),
		slog.String("scheme", material.Scheme.String()))

	return merged, nil
}

// LoadMaterial reads the material back out of the object's metadata.
func (h *MetadataHandler) LoadMaterial(ctx context.Context, store interfaces.ObjectStore, objectKey string, objectMetadata interfaces.ObjectMetadata) (*envelope.ContentCryptoMaterial, error) {
	return decodeFields(objectMetadata)
}
