package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

// ContractEntry describes one contract of the initial registry set.
type ContractEntry struct {
	// Name is the declared artifact name; defaults to the entry's key.
	Name string `toml:"name,omitempty"`

	// Address is the deployed address, empty for undeployed contracts.
	Address string `toml:"address,omitempty"`

	// ForwardsTo delegates interface resolution to another entry's key.
	ForwardsTo string `toml:"forwards-to,omitempty"`
}

// ContractsManifest is the contracts.toml shape.
type ContractsManifest struct {
	Contracts map[string]ContractEntry `toml:"contracts"`
}

// LoadContracts reads the initial contract set manifest. A missing file
// yields an empty manifest; the registry then starts empty.
func LoadContracts(path string) (*ContractsManifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ContractsManifest{Contracts: map[string]ContractEntry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var manifest ContractsManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if manifest.Contracts == nil {
		manifest.Contracts = map[string]ContractEntry{}
	}

	for key, entry := range manifest.Contracts {
		if entry.Address != "" && !common.IsHexAddress(entry.Address) {
			return nil, fmt.Errorf("contract %q in %s: invalid address %q", key, path, entry.Address)
		}
	}
	return &manifest, nil
}
