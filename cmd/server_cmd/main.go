package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/crossyield-io/vault-go/cmd"
	"github.com/crossyield-io/vault-go/logconfig"
)

const (
	ENV_CONFIG_FILE_PATH = "VAULT_CONFIG"
)

func main() {
	// Set overall log level to Info
	logconfig.ConfigInfoLogger()

	// Tool to read environment variables
	viper.AutomaticEnv()

	// Accessing an environment variable of configuration file location.
	_config_file := viper.GetString(ENV_CONFIG_FILE_PATH)
	fmt.Printf("Vault server configuration file = %s\n", _config_file)

	// See if file exists
	if !cmd.FileExists(_config_file) {
		fmt.Printf("Vault server configuration file not found: %s\n", _config_file)
		return
	}

	// Read from config file.
	success := initializeViper(_config_file)
	if !success {
		return
	}

	// Make the configuration
	vsc := PrepareVaultServerConfig()
	if vsc == nil {
		fmt.Printf("Error loading vault server configuration\n")
		return
	}

	fmt.Println("Starting vault server... press Ctrl+C to kill the server")
	// Start server and block.
	cmd.StartVaultServerAndWait(vsc)
}

func initializeViper(filePath string) bool {
	viper.SetConfigFile(filePath)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Error reading configuration file, %s", err)
		return false
	}
	return true
}

// PrepareVaultServerConfig reads configuration variables and returns a VaultServerConfig.
func PrepareVaultServerConfig() *cmd.VaultServerConfig {
	return &cmd.VaultServerConfig{
		// vault identity
		ChainID:      viper.GetString("VAULT_CHAIN_ID"),
		VaultAddress: viper.GetString("VAULT_ADDRESS"),
		OwnerAddress: viper.GetString("VAULT_OWNER"),
		// accounting
		PrincipalAssets: viper.GetString("PRINCIPAL_ASSETS"),
		// bridge side
		BridgeEmitterChain: viper.GetString("BRIDGE_EMITTER_CHAIN"),
		BridgeFee:          viper.GetString("BRIDGE_FEE"),
		// ledger side
		DbFilePath: viper.GetString("DB_FILE_PATH"),
		// Http side
		HttpIp:   viper.GetString("HTTP_IP"),
		HttpPort: viper.GetString("HTTP_PORT"),
	}
}
