// Config loading for the satchel CLI.
package main

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	configFileName = "satchel"
	configFileType = "yaml"

	// Config keys.
	cfgKeyStoreDir      = "store_dir"
	cfgKeyKeys          = "keys"
	cfgKeyKeyExt        = "key_ext"
	cfgKeyCipherCommand = "cipher_command"
)

// loadConfig reads the CLI configuration with Viper. With an explicit path
// the file must exist; otherwise satchel.yaml is looked up in the working
// directory and its absence is not an error (flags can carry everything).
func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return v, nil
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}
