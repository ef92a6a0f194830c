package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/halcyonlabs/objstore-encryption/client"
	"github.com/halcyonlabs/objstore-encryption/cmd/flags"
	"github.com/halcyonlabs/objstore-encryption/cryptoutils"
	"github.com/halcyonlabs/objstore-encryption/interfaces"
	"github.com/halcyonlabs/objstore-encryption/kms"
	"github.com/halcyonlabs/objstore-encryption/persistence"
	"github.com/halcyonlabs/objstore-encryption/storage"
	"github.com/urfave/cli/v2"
)

var objcryptLogFlag = flags.LogServiceFlagFn("objcrypt")

var inputFlag = &cli.StringFlag{
	Name:  "in",
	Value: "-",
	Usage: "file to read the plaintext body from, '-' for stdin",
}

var outputFlag = &cli.StringFlag{
	Name:  "out",
	Value: "-",
	Usage: "file to write the decrypted body to, '-' for stdout",
}

func main() {
	commonFlags := append([]cli.Flag{
		flags.StoreURIFlag,
		flags.MasterKeyHexFlag,
		flags.InstructionFileFlag,
		objcryptLogFlag,
	}, flags.CommonFlags...)

	app := &cli.App{
		Name:  "objcrypt",
		Usage: "Store and fetch envelope-encrypted objects",
		Commands: []*cli.Command{
			{
				Name:      "put",
				Usage:     "Encrypt a body and store it under a key",
				ArgsUsage: "<object-key>",
				Flags:     append([]cli.Flag{flags.SchemeFlag, inputFlag}, commonFlags...),
				Action:    runPut,
			},
			{
				Name:      "get",
				Usage:     "Fetch an object and decrypt its body",
				ArgsUsage: "<object-key>",
				Flags:     append([]cli.Flag{outputFlag}, commonFlags...),
				Action:    runGet,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupClient(cCtx *cli.Context, logger *slog.Logger, scheme interfaces.ContentCryptoScheme) (*client.EncryptionClient, error) {
	store, err := storage.NewStoreFactory(logger).StoreFor(cCtx.String(flags.StoreURIFlag.Name))
	if err != nil {
		return nil, err
	}

	masterKey, err := hex.DecodeString(cCtx.String(flags.MasterKeyHexFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("decoding master key: %w", err)
	}
	provider, err := kms.NewSimpleKMS(masterKey)
	if err != nil {
		return nil, err
	}

	var strategy persistence.MaterialPersistence = persistence.NewMetadataHandler(logger)
	if cCtx.Bool(flags.InstructionFileFlag.Name) {
		strategy = persistence.NewInstructionFileHandler(logger)
	}

	return client.NewEncryptionClient(store, provider, strategy, scheme, logger), nil
}

func runPut(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)
	if cCtx.NArg() != 1 {
		return fmt.Errorf("%w: put expects exactly one object key argument", interfaces.ErrUsage)
	}
	objectKey := cCtx.Args().First()

	scheme, err := interfaces.ParseContentCryptoScheme(cCtx.String(flags.SchemeFlag.Name))
	if err != nil {
		return err
	}

	if err := cryptoutils.InitRuntime(); err != nil {
		return err
	}
	defer cryptoutils.ShutdownRuntime()

	c, err := setupClient(cCtx, logger, scheme)
	if err != nil {
		logger.Error("Failed to set up client", "err", err)
		return err
	}

	body, err := readInput(cCtx.String(inputFlag.Name))
	if err != nil {
		logger.Error("Failed to read input", "err", err)
		return err
	}

	if err := c.PutObject(cCtx.Context, objectKey, nil, body); err != nil {
		logger.Error("Failed to store object", "err", err)
		return err
	}
	return nil
}

func runGet(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)
	if cCtx.NArg() != 1 {
		return fmt.Errorf("%w: get expects exactly one object key argument", interfaces.ErrUsage)
	}
	objectKey := cCtx.Args().First()

	if err := cryptoutils.InitRuntime(); err != nil {
		return err
	}
	defer cryptoutils.ShutdownRuntime()

	// The scheme is recovered from the persisted material, the flag value
	// only matters for put.
	c, err := setupClient(cCtx, logger, interfaces.SchemeGCM)
	if err != nil {
		logger.Error("Failed to set up client", "err", err)
		return err
	}

	body, err := c.GetObject(cCtx.Context, objectKey)
	if err != nil {
		logger.Error("Failed to fetch object", "err", err)
		return err
	}

	if err := writeOutput(cCtx.String(outputFlag.Name), body); err != nil {
		logger.Error("Failed to write output", "err", err)
		return err
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, body []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(body)
		return err
	}
	return os.WriteFile(path, body, 0o644)
}
