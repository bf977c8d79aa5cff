// Root command and notebook construction for the satchel CLI.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/internal/cipher"
	"github.com/mesh-intelligence/satchel/pkg/notebook"
)

// Global flag values.
var (
	flagConfig   string
	flagStoreDir string
	flagKeys     []string
	flagJSON     bool
)

var rootCmd = &cobra.Command{
	Use:   "satchel",
	Short: "Satchel is a read-only viewer for encrypted note stores",
	Long: `Satchel reads directory-based note stores whose items are plaintext
or client-side encrypted. Master keys unlock with passphrases supplied as
id,passphrase pairs; the cipher primitive is delegated to an external
helper command.`,
	Version:       notebook.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: satchel.yaml in the working directory)")
	rootCmd.PersistentFlags().StringVar(&flagStoreDir, "store-dir", "", "note store directory")
	rootCmd.PersistentFlags().StringArrayVar(&flagKeys, "key", nil, "master key credential as id,passphrase (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(versionCmd)
}

// openNotebook resolves configuration and loads the store. Flags override
// config file values; credentials accumulate from both.
func openNotebook() (*notebook.Notebook, error) {
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return nil, err
	}

	storeDir := flagStoreDir
	if storeDir == "" {
		storeDir = cfg.GetString(cfgKeyStoreDir)
	}
	if storeDir == "" {
		return nil, fmt.Errorf("no store directory: set --store-dir or %s in the config file", cfgKeyStoreDir)
	}

	passwords := append(cfg.GetStringSlice(cfgKeyKeys), flagKeys...)

	var opts []notebook.Option
	if ext := cfg.GetString(cfgKeyKeyExt); ext != "" {
		opts = append(opts, notebook.WithKeyExtension(ext))
	}
	if fields := strings.Fields(cfg.GetString(cfgKeyCipherCommand)); len(fields) > 0 {
		opts = append(opts, notebook.WithDecrypter(cipher.NewCommand(fields[0], fields[1:]...)))
	}

	return notebook.Open(storeDir, passwords, opts...)
}
