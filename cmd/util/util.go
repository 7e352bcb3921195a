package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ValentinKolb/fcache/lib/cache"
	"github.com/ValentinKolb/fcache/lib/common"
	"github.com/ValentinKolb/fcache/lib/tempdir"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix prefixes all environment variables read by the CLI
	EnvPrefix = "fcache"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupCacheFlags adds the cache location and tuning flags to a command
func SetupCacheFlags(cmd *cobra.Command) {
	defaults := cache.DefaultConfig()

	key := "dir"
	cmd.PersistentFlags().String(key, "", WrapString("Directory of the cache (mutually exclusive with --id)"))

	key = "id"
	cmd.PersistentFlags().String(key, "", WrapString("Use the cache fc_<id> below the system temp directory (1-20 characters of [A-Za-z0-9_])"))

	key = "max-heap-entries"
	cmd.PersistentFlags().Int(key, defaults.MaxHeapEntries, WrapString("Maximum number of values held in memory"))

	key = "max-disk-bytes"
	cmd.PersistentFlags().Int64(key, defaults.MaxDiskBytes, WrapString("Maximum size of all live entries on disk (in bytes)"))

	key = "ttl"
	cmd.PersistentFlags().Duration(key, 0, WrapString("Expire entries this long after they were written (0 = never)"))

	key = "tti"
	cmd.PersistentFlags().Duration(key, 0, WrapString("Expire entries this long after they were last read or written (0 = never)"))

	key = "lock-timeout"
	cmd.PersistentFlags().Duration(key, defaults.LockTimeout, WrapString("How long to wait for the directory lock"))

	key = "sync"
	cmd.PersistentFlags().Bool(key, defaults.SyncWrites, WrapString("Fsync the log after every write"))

	key = "reap-interval"
	cmd.PersistentFlags().Duration(key, 0, WrapString("Interval of the background expiry sweep (0 = disabled)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("Log level (debug, info, warn, error)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// InitLogging installs the fcache log format with the configured level
func InitLogging() error {
	return common.InitLoggers(viper.GetString("log-level"))
}

// GetCacheConfig reads the cache configuration from viper
func GetCacheConfig() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.MaxHeapEntries = viper.GetInt("max-heap-entries")
	cfg.MaxDiskBytes = viper.GetInt64("max-disk-bytes")
	cfg.TimeToLive = viper.GetDuration("ttl")
	cfg.TimeToIdle = viper.GetDuration("tti")
	cfg.LockTimeout = viper.GetDuration("lock-timeout")
	cfg.SyncWrites = viper.GetBool("sync")
	cfg.ReapInterval = viper.GetDuration("reap-interval")
	return cfg
}

// GetCacheDir resolves the cache directory from --dir or --id
func GetCacheDir() (string, error) {
	dir := viper.GetString("dir")
	id := viper.GetString("id")

	switch {
	case dir != "" && id != "":
		return "", errors.New("--dir and --id are mutually exclusive")
	case dir != "":
		return dir, nil
	case id != "":
		path, err := tempdir.ToTempSubdir(id)
		if err != nil {
			return "", fmt.Errorf("invalid --id: %w", err)
		}
		return path, nil
	default:
		return "", errors.New("either --dir or --id is required")
	}
}
