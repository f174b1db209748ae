package cmd

import (
	"os"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// FileExists checks if a file exists and is readable
func FileExists(filePath string) bool {
	file, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer file.Close()
	return true
}

// ParseAddressList splits a comma separated list of hex addresses.
// Malformed entries are dropped.
func ParseAddressList(raw string) []ethcommon.Address {
	var out []ethcommon.Address
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !ethcommon.IsHexAddress(part) {
			continue
		}
		out = append(out, ethcommon.HexToAddress(part))
	}
	return out
}
