package flags

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/halcyonlabs/objstore-encryption/common"
	"github.com/urfave/cli/v2"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String("log-service")

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

var StoreURIFlag = &cli.StringFlag{
	Name:  "store-uri",
	Value: "memory:",
	Usage: "backing store location (memory:, file:///path, s3://bucket/prefix?region=...)",
}

var MasterKeyHexFlag = &cli.StringFlag{
	Name:     "master-key-hex",
	Usage:    "hex-encoded master key seed, at least 32 bytes once decoded",
	EnvVars:  []string{"OBJCRYPT_MASTER_KEY_HEX"},
	Required: true,
}

var SchemeFlag = &cli.StringFlag{
	Name:  "scheme",
	Value: "AES/GCM",
	Usage: "content encryption scheme: AES/CBC, AES/CTR or AES/GCM",
}

var InstructionFileFlag = &cli.BoolFlag{
	Name:  "instruction-file",
	Value: false,
	Usage: "persist crypto material as a side object instead of object metadata",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

func LogServiceFlagFn(defaultValue string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "log-service",
		Value: defaultValue,
		Usage: "add 'service' tag to logs",
	}
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
}
