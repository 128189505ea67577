package adapter

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	m "gooze.dev/pkg/regroup/internal/model"
)

// CurrentMappingVersion is the mapping file format this build reads and writes.
const CurrentMappingVersion = 1

// ErrInvalidMapping is returned when a mapping file fails validation.
var ErrInvalidMapping = errors.New("invalid mapping")

//go:embed defaults/feature_groups.yaml
var defaultMapping []byte

// MappingStore loads and saves identifier -> classification tables.
type MappingStore interface {
	// Load reads the mapping table at path.
	Load(path m.Path) (m.MappingTable, error)
	// Default returns the table compiled into the binary.
	Default() (m.MappingTable, error)
	// Save writes table to path in the format Load reads.
	Save(path m.Path, table m.MappingTable) error
}

type mappingFile struct {
	Version int             `yaml:"version"`
	Entries []mappingRecord `yaml:"entries"`
}

type mappingRecord struct {
	ID       string `yaml:"id"`
	Group    string `yaml:"group"`
	SubGroup string `yaml:"subgroup,omitempty"`
}

// YAMLMappingStore reads mapping tables from YAML files.
type YAMLMappingStore struct {
	fs SourceFSAdapter
}

// NewYAMLMappingStore constructs a YAMLMappingStore writing through fs.
func NewYAMLMappingStore(fs SourceFSAdapter) *YAMLMappingStore {
	return &YAMLMappingStore{fs: fs}
}

// Load reads and validates the mapping file at path.
func (s *YAMLMappingStore) Load(path m.Path) (m.MappingTable, error) {
	// #nosec G304 - mapping path is chosen by the operator
	f, err := os.Open(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping %s: %w", path, err)
	}

	defer func() {
		_ = f.Close()
	}()

	table, err := decodeMapping(f)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}

	return table, nil
}

// Default decodes the embedded feature registry table.
func (s *YAMLMappingStore) Default() (m.MappingTable, error) {
	return decodeMapping(bytes.NewReader(defaultMapping))
}

// Save encodes table as YAML and writes it atomically to path.
func (s *YAMLMappingStore) Save(path m.Path, table m.MappingTable) error {
	file := mappingFile{
		Version: CurrentMappingVersion,
		Entries: make([]mappingRecord, 0, len(table)),
	}

	for _, e := range table {
		file.Entries = append(file.Entries, mappingRecord{
			ID:       e.ID,
			Group:    e.Classification.Group,
			SubGroup: e.Classification.SubGroup,
		})
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}

	return s.fs.WriteFile(path, buf.String())
}

func decodeMapping(r io.Reader) (m.MappingTable, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file mappingFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidMapping)
		}

		return nil, fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}

	if file.Version != CurrentMappingVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidMapping, file.Version)
	}

	table := make(m.MappingTable, 0, len(file.Entries))

	for i, rec := range file.Entries {
		id := strings.TrimSpace(rec.ID)
		group := strings.TrimSpace(rec.Group)

		if id == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrInvalidMapping, i)
		}

		if group == "" {
			return nil, fmt.Errorf("%w: entry %q has no group", ErrInvalidMapping, id)
		}

		table = append(table, m.MappingEntry{
			ID: id,
			Classification: m.Classification{
				Group:    group,
				SubGroup: strings.TrimSpace(rec.SubGroup),
			},
		})
	}

	return table, nil
}
