package grid

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/gridmix/core/model"
)

// FileSource reads observations from a JSON or YAML file on every Fetch.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

func (s *FileSource) Fetch(ctx context.Context) (model.Observations, error) {
	if err := ctx.Err(); err != nil {
		return model.Observations{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.Observations{}, fmt.Errorf("read observations: %w", err)
	}
	return DecodeObservations(data, filepath.Ext(s.path))
}

// DecodeObservations parses data as YAML for .yaml/.yml and JSON otherwise.
// Fuel-mix keys are normalized.
func DecodeObservations(data []byte, ext string) (model.Observations, error) {
	var obs model.Observations
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &obs); err != nil {
			return model.Observations{}, fmt.Errorf("decode yaml observations: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &obs); err != nil {
			return model.Observations{}, fmt.Errorf("decode json observations: %w", err)
		}
	}
	obs.Secondary = normalizeMix(obs.Secondary)
	return obs, nil
}
