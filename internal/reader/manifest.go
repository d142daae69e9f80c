package reader

import (
	"fmt"
	"io"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	ManifestKind    = "Course"
	ManifestVersion = "v1"
)

// CourseManifest describes a course and its roster in YAML.
type CourseManifest struct {
	Kind     string           `yaml:"kind"`
	Version  string           `yaml:"version"`
	Course   domain.Course    `yaml:"course"`
	Students []domain.Student `yaml:"students"`
}

func (m *CourseManifest) Validate() error {
	if m.Kind != ManifestKind {
		return fmt.Errorf("unsupported manifest kind %q, expected %q", m.Kind, ManifestKind)
	}
	if m.Version != ManifestVersion {
		return fmt.Errorf("unsupported manifest version %q, expected %q", m.Version, ManifestVersion)
	}
	if err := m.Course.Validate(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(m.Students))
	for i := range m.Students {
		st := m.Students[i]
		if err := validate.Struct(st); err != nil {
			return fmt.Errorf("students[%d]: %w", i, err)
		}
		if _, dup := seen[st.ID]; dup {
			return fmt.Errorf("students[%d]: duplicate student id %q", i, st.ID)
		}
		seen[st.ID] = struct{}{}
	}
	return nil
}

type YAMLManifestLoader struct {
	reader io.Reader
}

func NewYAMLManifestLoader(reader io.Reader) *YAMLManifestLoader {
	return &YAMLManifestLoader{
		reader: reader,
	}
}

func (l *YAMLManifestLoader) Load(validate bool) (*CourseManifest, error) {
	decoder := yaml.NewDecoder(l.reader)
	decoder.KnownFields(true)

	var manifest CourseManifest
	if err := decoder.Decode(&manifest); err != nil {
		return nil, fmt.Errorf("failed to decode course manifest: %w", err)
	}
	if validate {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
	}
	return &manifest, nil
}
