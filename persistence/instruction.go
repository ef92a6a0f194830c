package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/halcyonlabs/objstore-encryption/envelope"
	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// InstructionFileHandler persists crypto material as a standalone side
// object next to the encrypted object. The side object's key is the
// original key with InstructionFileSuffix appended; its metadata carries
// one marker header and its body is the JSON field map.
type InstructionFileHandler struct {
	log *slog.Logger
}

// NewInstructionFileHandler creates the instruction-file strategy.
func NewInstructionFileHandler(log *slog.Logger) *InstructionFileHandler {
	return &InstructionFileHandler{log: log}
}

// StoreMaterial writes the instruction object through the store. The
// object's own metadata passes through unchanged.
func (h *InstructionFileHandler) StoreMaterial(ctx context.Context, store interfaces.ObjectStore, objectKey string, material *envelope.ContentCryptoMaterial, objectMetadata interfaces.ObjectMetadata) (interfaces.ObjectMetadata, error) {
	fields, err := encodeFields(material)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("serializing instruction file: %w", err)
	}

	instructionKey := objectKey + InstructionFileSuffix
	marker := interfaces.ObjectMetadata{InstructionFileHeader: InstructionHeaderValue}
	if err := store.PutObject(ctx, instructionKey, marker, body); err != nil {
		return nil, fmt.Errorf("writing instruction file %q: %w", instructionKey, err)
	}

	h.log.Debug("Wrote crypto instruction file",
		slog.String("key", instructionKey),
		slog.String("store", store.Name()))

	return objectMetadata, nil
}

// LoadMaterial fetches and parses the instruction object. A missing
// side object surfaces as ErrContentNotFound; an object without the
// marker header is rejected as a format error rather than parsed.
func (h *InstructionFileHandler) LoadMaterial(ctx context.Context, store interfaces.ObjectStore, objectKey string, objectMetadata interfaces.ObjectMetadata) (*envelope.ContentCryptoMaterial, error) {
	instructionKey := objectKey + InstructionFileSuffix
	metadata, body, err := store.GetObject(ctx, instructionKey)
	if err != nil {
		if errors.Is(err, interfaces.ErrContentNotFound) {
			return nil, fmt.Errorf("%w: no instruction file for %q", interfaces.ErrContentNotFound, objectKey)
		}
		return nil, fmt.Errorf("reading instruction file %q: %w", instructionKey, err)
	}
	if metadata[InstructionFileHeader] != InstructionHeaderValue {
		return nil, fmt.Errorf("%w: object %q is not a crypto instruction file", interfaces.ErrInvalidFormat, instructionKey)
	}

	var fields map[string]string
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: instruction file body is not a JSON object: %v", interfaces.ErrInvalidFormat, err)
	}
	return decodeFields(fields)
}
