package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/oKV/lib/db"
	"github.com/ValentinKolb/oKV/lib/db/engines/cedar"
	dbutil "github.com/ValentinKolb/oKV/lib/db/util"
	"github.com/ValentinKolb/oKV/lib/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
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

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStoreFlags adds the engine configuration flags to a command
func SetupStoreFlags(cmd *cobra.Command) {
	key := "initial-capacity"
	cmd.PersistentFlags().Int(key, cedar.DefaultInitialCapacity, WrapString("Initial slot count of a fresh store table (rounded up to a power of two)"))

	key = "max-capacity"
	cmd.PersistentFlags().Int(key, 0, WrapString("Upper bound on the table slot count - growth past it fails with a NO_MEM error (0 = unbounded)"))

	key = "hasher"
	cmd.PersistentFlags().String(key, "fnv1a", WrapString("Hash function to use (fnv1a, murmur3)"))

	key = "shrink-on-delete"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether deletes may shrink a mostly-empty table"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("okv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetStoreOptions reads the engine configuration from viper
func GetStoreOptions() (*cedar.DBOptions, error) {
	var hasher dbutil.BytesHasher
	switch name := viper.GetString("hasher"); name {
	case "fnv1a":
		hasher = dbutil.HashBytes
	case "murmur3":
		hasher = dbutil.HashBytesMurmur3
	default:
		return nil, fmt.Errorf("invalid hasher %s (expected one of: fnv1a, murmur3)", name)
	}

	return &cedar.DBOptions{
		InitialCapacity: viper.GetInt("initial-capacity"),
		MaxCapacity:     viper.GetInt("max-capacity"),
		ShrinkOnDelete:  viper.GetBool("shrink-on-delete"),
		Hasher:          hasher,
	}, nil
}

// GetStoreFactory builds an engine factory from the configuration
func GetStoreFactory() (store.DBFactory, error) {
	opts, err := GetStoreOptions()
	if err != nil {
		return nil, err
	}
	return func() db.Store {
		return cedar.NewCedarDB(opts)
	}, nil
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
