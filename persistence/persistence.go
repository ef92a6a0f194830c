package persistence

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/halcyonlabs/objstore-encryption/envelope"
	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// MaterialPersistence serializes ContentCryptoMaterial to and from the
// external object store. The two strategies are alternative encodings,
// not wire-compatible with each other: each reads exactly what it
// writes.
type MaterialPersistence interface {
	// StoreMaterial persists the material for the object about to be
	// written under objectKey. The returned metadata must be attached
	// to the object's own put; the metadata strategy folds the material
	// into it, the instruction strategy writes a side object and leaves
	// it untouched.
	StoreMaterial(ctx context.Context, store interfaces.ObjectStore, objectKey string, material *envelope.ContentCryptoMaterial, objectMetadata interfaces.ObjectMetadata) (interfaces.ObjectMetadata, error)

	// LoadMaterial reconstructs the material for the object read from
	// objectKey, given the metadata that came back with it.
	LoadMaterial(ctx context.Context, store interfaces.ObjectStore, objectKey string, objectMetadata interfaces.ObjectMetadata) (*envelope.ContentCryptoMaterial, error)
}

// encodeFields flattens a material into the persisted field map. Binary
// fields are base64, the description map is a JSON object.
func encodeFields(m *envelope.ContentCryptoMaterial) (map[string]string, error) {
	desc, err := json.Marshal(m.Description)
	if err != nil {
		return nil, fmt.Errorf("serializing materials description: %w", err)
	}
	return map[string]string{
		ContentKeyHeader:           base64.StdEncoding.EncodeToString(m.WrappedKey),
		IVHeader:                   base64.StdEncoding.EncodeToString(m.IV),
		MaterialsDescriptionHeader: string(desc),
		ContentCryptoSchemeHeader:  m.Scheme.String(),
		KeyWrapAlgorithmHeader:     m.WrapAlgorithm.String(),
		TagLengthHeader:            strconv.Itoa(m.TagLengthBits),
	}, nil
}

// decodeFields rebuilds a material from the persisted field map,
// reporting missing or inconsistent fields as format errors.
func decodeFields(fields map[string]string) (*envelope.ContentCryptoMaterial, error) {
	for _, required := range []string{ContentKeyHeader, IVHeader, ContentCryptoSchemeHeader, TagLengthHeader} {
		if _, ok := fields[required]; !ok {
			return nil, fmt.Errorf("%w: persisted material is missing %s", interfaces.ErrInvalidFormat, required)
		}
	}

	wrappedKey, err := base64.StdEncoding.DecodeString(fields[ContentKeyHeader])
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not base64: %v", interfaces.ErrInvalidFormat, ContentKeyHeader, err)
	}
	iv, err := base64.StdEncoding.DecodeString(fields[IVHeader])
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not base64: %v", interfaces.ErrInvalidFormat, IVHeader, err)
	}
	scheme, err := interfaces.ParseContentCryptoScheme(fields[ContentCryptoSchemeHeader])
	if err != nil {
		return nil, err
	}
	wrapAlg, err := interfaces.ParseKeyWrapAlgorithm(fields[KeyWrapAlgorithmHeader])
	if err != nil {
		return nil, err
	}
	tagBits, err := strconv.Atoi(fields[TagLengthHeader])
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a decimal number: %v", interfaces.ErrInvalidFormat, TagLengthHeader, err)
	}

	desc := interfaces.MaterialsDescription{}
	if raw, ok := fields[MaterialsDescriptionHeader]; ok && raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &desc); err != nil {
			return nil, fmt.Errorf("%w: %s is not a JSON object: %v", interfaces.ErrInvalidFormat, MaterialsDescriptionHeader, err)
		}
	}

	material := &envelope.ContentCryptoMaterial{
		WrappedKey:    wrappedKey,
		IV:            iv,
		Scheme:        scheme,
		WrapAlgorithm: wrapAlg,
		TagLengthBits: tagBits,
		Description:   desc,
	}
	if err := material.Validate(); err != nil {
		return nil, err
	}
	return material, nil
}
