// Package artifacts loads compiled contract artifacts from build output.
package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/loam-labs/evmkit/internal/domain/models"
	"github.com/loam-labs/evmkit/internal/usecase"
)

// forgeArtifact is the compilation artifact shape emitted by forge.
type forgeArtifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode struct {
		Object string `json:"object"`
	} `json:"bytecode"`
}

// FSLoader reads artifacts from a build-output directory. It understands the
// forge layout (out/<Name>.sol/<Name>.json), a flat <Name>.json, and
// separate <Name>.abi / <Name>.bin descriptor and bytecode files.
//
// A contract with no artifact on disk yields a record with absent fields,
// not an error; callers tolerate partial data.
type FSLoader struct {
	outDir string
}

// NewFSLoader creates a loader over outDir.
func NewFSLoader(outDir string) *FSLoader {
	return &FSLoader{outDir: outDir}
}

// Artifact loads the artifact for the contract's declared name.
func (l *FSLoader) Artifact(ctx context.Context, name string) (*models.Artifact, error) {
	candidates := []string{
		filepath.Join(l.outDir, name+".sol", name+".json"),
		filepath.Join(l.outDir, name+".json"),
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading artifact %s: %w", path, err)
		}
		return parseForgeArtifact(name, path, data)
	}
	return l.loadSplitArtifact(name)
}

func parseForgeArtifact(name, path string, data []byte) (*models.Artifact, error) {
	var raw forgeArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing artifact %s: %w", path, err)
	}

	artifact := &models.Artifact{
		Name:     name,
		Bytecode: strings.TrimSpace(raw.Bytecode.Object),
	}
	if len(raw.ABI) > 0 {
		parsed, err := abi.JSON(strings.NewReader(string(raw.ABI)))
		if err != nil {
			return nil, fmt.Errorf("parsing interface descriptor in %s: %w", path, err)
		}
		artifact.ABI = &parsed
	}
	return artifact, nil
}

// loadSplitArtifact reads the separate-files layout. Either file may be
// missing; whatever exists is returned.
func (l *FSLoader) loadSplitArtifact(name string) (*models.Artifact, error) {
	artifact := &models.Artifact{Name: name}

	if data, err := os.ReadFile(filepath.Join(l.outDir, name+".abi")); err == nil {
		parsed, err := abi.JSON(strings.NewReader(string(data)))
		if err != nil {
			return nil, fmt.Errorf("parsing %s.abi: %w", name, err)
		}
		artifact.ABI = &parsed
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s.abi: %w", name, err)
	}

	if data, err := os.ReadFile(filepath.Join(l.outDir, name+".bin")); err == nil {
		artifact.Bytecode = strings.TrimSpace(string(data))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s.bin: %w", name, err)
	}

	return artifact, nil
}

var _ usecase.ArtifactStore = (*FSLoader)(nil)
