package persistence

// Field names for persisted crypto material. Shared by both strategies
// and compatible with the S3 encryption client wire format.
const (
	// ContentKeyHeader stores the wrapped content key, base64 encoded.
	ContentKeyHeader = "x-amz-key-v2"

	// IVHeader stores the initialization vector, base64 encoded.
	IVHeader = "x-amz-iv"

	// MaterialsDescriptionHeader stores the caller's description map as
	// a JSON object.
	MaterialsDescriptionHeader = "x-amz-matdesc"

	// ContentCryptoSchemeHeader stores the scheme short name.
	ContentCryptoSchemeHeader = "x-amz-cek-alg"

	// KeyWrapAlgorithmHeader stores the wrap algorithm short name.
	KeyWrapAlgorithmHeader = "x-amz-wrap-alg"

	// TagLengthHeader stores the AEAD tag length in bits as a decimal
	// string, "0" for non-AEAD schemes.
	TagLengthHeader = "x-amz-tag-len"
)

// Instruction file constants.
const (
	// InstructionFileSuffix is appended to the object key to form the
	// instruction object's key.
	InstructionFileSuffix = ".instruction"

	// InstructionFileHeader marks an object as a crypto instruction
	// file.
	InstructionFileHeader = "x-amz-crypto-instr-file"

	// InstructionHeaderValue is the marker header's constant value.
	InstructionHeaderValue = "default instruction file header"
)
