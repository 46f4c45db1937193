// Package manifest records what a pipeline command read and wrote.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/healthsurvey-cli/internal/utils"
)

// Artifact kinds.
const (
	KindRawCSV   = "raw-csv"
	KindCleanCSV = "clean-csv"
	KindChart    = "chart-png"
	KindWorkbook = "workbook-xlsx"
)

// Artifact is one file read or written by a run.
type Artifact struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
	Rows int    `json:"rows,omitempty"`
}

// Manifest describes one command run. It is informative only.
type Manifest struct {
	ID         string     `json:"id"`
	Command    string     `json:"command"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Inputs     []Artifact `json:"inputs"`
	Outputs    []Artifact `json:"outputs"`
	// Upstream is the ID of the run that produced this run's inputs.
	Upstream string `json:"upstream,omitempty"`

	dir string
}

// FileName is the manifest file written for command.
func FileName(command string) string { return command + ".manifest.json" }

// New starts a manifest that will be saved in dir.
func New(command, dir string) *Manifest {
	return &Manifest{
		ID:        uuid.NewString(),
		Command:   command,
		StartedAt: time.Now().UTC(),
		Inputs:    []Artifact{},
		Outputs:   []Artifact{},
		dir:       dir,
	}
}

// Load reads the manifest of command from dir.
func Load(dir, command string) (*Manifest, error) {
	path := filepath.Join(dir, FileName(command))
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.dir = dir
	return &m, nil
}

// Path is where Save writes the manifest.
func (m *Manifest) Path() string { return filepath.Join(m.dir, FileName(m.Command)) }

// AddInput records a file that was read.
func (m *Manifest) AddInput(path, kind string, rows int) {
	m.Inputs = append(m.Inputs, Artifact{Path: path, Kind: kind, Rows: rows})
}

// AddOutput records a file that was written.
func (m *Manifest) AddOutput(path, kind string, rows int) {
	m.Outputs = append(m.Outputs, Artifact{Path: path, Kind: kind, Rows: rows})
}

// Save stamps the finish time and writes the manifest atomically.
func (m *Manifest) Save() error {
	if m.dir == "" {
		return errors.New("manifest directory not set")
	}
	m.FinishedAt = time.Now().UTC()
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(m.Path(), data); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}
