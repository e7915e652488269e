package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/flowbench/internal/config"
	"github.com/specialistvlad/flowbench/internal/ctxlog"
	"github.com/specialistvlad/flowbench/internal/fsutil"
	"github.com/specialistvlad/flowbench/internal/hcl"
	"github.com/specialistvlad/flowbench/internal/yamlconf"
)

// loadModel resolves the run model: defaults, then the configuration file
// when one is given, then the command-line patch.
func loadModel(ctx context.Context, path string, patch config.Patch) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	model := config.Default()
	if path != "" {
		file, err := resolveConfigFile(path)
		if err != nil {
			return nil, err
		}
		loader, err := loaderFor(file)
		if err != nil {
			return nil, err
		}
		model, err = loader.Load(ctx, file)
		if err != nil {
			return nil, err
		}
		logger.Debug("Configuration file loaded.", "path", file)
	} else {
		logger.Debug("No configuration file given, using defaults.")
	}

	if err := model.Apply(patch); err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// resolveConfigFile accepts a file, or a directory holding exactly one
// .hcl file.
func resolveConfigFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("error accessing config path %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return "", fmt.Errorf("error searching config directory %s: %w", path, err)
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("no .hcl file found in %s", path)
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("config directory %s holds %d .hcl files, expected one", path, len(files))
	}
}

// loaderFor picks the loader matching the file extension.
func loaderFor(path string) (config.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return hcl.NewLoader(), nil
	case ".yaml", ".yml":
		return yamlconf.NewLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported config file %s: expected .hcl, .yaml or .yml", path)
	}
}
