package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gregLibert/emv-reader/internal/config"
	"github.com/gregLibert/emv-reader/internal/logging"
	"github.com/gregLibert/emv-reader/pkg/libnfc"
	"github.com/gregLibert/emv-reader/pkg/pcsc"
	"github.com/gregLibert/emv-reader/pkg/reader"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "emv-reader",
	Short: "Read and decode contactless EMV payment cards",
	Long: `emv-reader selects the payment application of a contactless card and
decodes the BER-TLV answer into named, human readable fields.
Card numbers and track 2 data are always masked.`,
	SilenceUsage: true,
}

var (
	configPath string
	overrides  config.Config
)

func init() {
	f := RootCmd.PersistentFlags()
	f.StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/emv-reader/config.toml)")
	f.StringVar(&overrides.LogLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	f.StringVar(&overrides.Backend, "backend", "", "card reader backend: pcsc or libnfc")
	f.StringVar(&overrides.Reader, "reader", "", "PC/SC reader name")
	f.StringVar(&overrides.Device, "device", "", "libnfc connection string")
	f.StringVar(&overrides.AID, "aid", "", "application identifier to select, hex")
	f.StringVar(&overrides.Timeout, "timeout", "", "how long to wait for a card, e.g. 30s")

	RootCmd.AddCommand(readCmd, decodeCmd, tagsCmd, serveCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig reads the config file and applies the flags set on the
// command line.
func loadConfig(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	flags := cmd.Flags()
	apply := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	apply("log-level", &cfg.LogLevel, overrides.LogLevel)
	apply("backend", &cfg.Backend, overrides.Backend)
	apply("reader", &cfg.Reader, overrides.Reader)
	apply("device", &cfg.Device, overrides.Device)
	apply("aid", &cfg.AID, overrides.AID)
	apply("timeout", &cfg.Timeout, overrides.Timeout)
	if flags.Changed("mdns") {
		cfg.MDNS = overrides.MDNS
	}
	if flags.Changed("listen") {
		cfg.Listen = overrides.Listen
	}

	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

// newReader builds the card reader for the configured backend.
func newReader(cfg *config.Config, log zerolog.Logger, opts ...reader.Option) (*reader.Reader, error) {
	aid, err := cfg.AIDBytes()
	if err != nil {
		return nil, err
	}

	var t reader.Transport
	switch cfg.Backend {
	case config.BackendLibNFC:
		t = libnfc.New(cfg.Device, log)
	default:
		t = pcsc.New(cfg.Reader, log)
	}

	opts = append([]reader.Option{reader.WithAID(aid), reader.WithLogger(log)}, opts...)
	return reader.New(t, opts...), nil
}
