package aggregation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownView is returned when a view name is not registered.
var ErrUnknownView = errors.New("unknown view")

// rawView is the on-disk YAML shape of a view definition.
type rawView struct {
	Name        string `yaml:"name"`
	GroupBy     string `yaml:"group_by"`
	Operator    string `yaml:"operator"`
	Field       string `yaml:"field"`
	KeyColumn   string `yaml:"key_column"`
	ValueColumn string `yaml:"value_column"`
	Order       string `yaml:"order"` // optional; defaults to desc when grouped
}

// ViewRepository serves view definitions in sheet order.
type ViewRepository interface {
	// Get returns the view with the given name, or ErrUnknownView.
	Get(ctx context.Context, name string) (*ViewDefinition, error)

	// Views returns all definitions in sheet order.
	Views() []ViewDefinition
}

// FileSystemViewRepository holds the built-in views followed by any extra views
// declared in *.yaml files under dir, one view per file, in file-name order.
// Definitions are loaded once at startup.
type FileSystemViewRepository struct {
	dir   string
	views []ViewDefinition
	names map[string]int
}

// NewFileSystemViewRepository creates a repository and eagerly loads all views.
// An empty dir or a missing directory yields the built-in views only.
func NewFileSystemViewRepository(dir string) (*FileSystemViewRepository, error) {
	repo := &FileSystemViewRepository{
		dir:   dir,
		names: make(map[string]int),
	}
	for _, v := range DefaultViews() {
		if err := repo.add(v); err != nil {
			return nil, err
		}
	}
	if dir == "" {
		return repo, nil
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *FileSystemViewRepository) add(v ViewDefinition) error {
	if err := v.Validate(); err != nil {
		return err
	}
	key := strings.ToLower(v.Name)
	if _, exists := r.names[key]; exists {
		return fmt.Errorf("view %q: duplicate view name", v.Name)
	}
	r.names[key] = len(r.views)
	r.views = append(r.views, v)
	return nil
}

func (r *FileSystemViewRepository) load() error {
	info, err := os.Stat(r.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("view definition dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("view definition path %q is not a directory", r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading view definition dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(r.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading view file %s: %w", path, err)
		}

		var raw rawView
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing view file %s: %w", path, err)
		}
		if raw.Name == "" {
			continue // empty or comment-only file
		}

		order := raw.Order
		if order == "" {
			order = OrderNone
			if raw.GroupBy != "" {
				order = OrderDesc
			}
		}

		keyColumn := raw.KeyColumn
		if keyColumn == "" && raw.GroupBy != "" {
			keyColumn = dimensionHeaders[raw.GroupBy]
		}

		if err := r.add(ViewDefinition{
			Name:        raw.Name,
			GroupBy:     raw.GroupBy,
			Operator:    raw.Operator,
			Field:       raw.Field,
			KeyColumn:   keyColumn,
			ValueColumn: raw.ValueColumn,
			Order:       order,
		}); err != nil {
			return fmt.Errorf("view file %s: %w", path, err)
		}
	}
	return nil
}

// Get returns the view with the given name (case-insensitive, like sheet names).
func (r *FileSystemViewRepository) Get(_ context.Context, name string) (*ViewDefinition, error) {
	i, ok := r.names[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	v := r.views[i]
	return &v, nil
}

// Views returns a copy of all definitions in sheet order.
func (r *FileSystemViewRepository) Views() []ViewDefinition {
	out := make([]ViewDefinition, len(r.views))
	copy(out, r.views)
	return out
}
