package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/ports"
	"github.com/aretw0/loam"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

// Library adapts a Loam repository of markdown block documents to ports.BlockLibrary.
type Library struct {
	Repo *loam.TypedRepository[BlockMetadata]
}

var _ ports.BlockLibrary = (*Library)(nil)

// New creates a library over an initialized typed repository.
func New(repo *loam.TypedRepository[BlockMetadata]) *Library {
	return &Library{Repo: repo}
}

// Open initializes a read-only Loam repository at dir.
func Open(dir string) (*Library, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve library path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init loam library: %w", err)
	}
	return New(loam.NewTypedRepository[BlockMetadata](repo)), nil
}

// List returns every block in the repository ordered by ID.
func (l *Library) List(ctx context.Context) ([]ports.LibraryEntry, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	entries := make([]ports.LibraryEntry, 0, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: block '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID

		entries = append(entries, ports.LibraryEntry{
			ID:      id,
			Type:    domain.DeriveType(doc.Data.Name),
			Name:    doc.Data.Name,
			Tooltip: doc.Data.Tooltip,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// Get decodes the block with the given ID into a fresh definition.
func (l *Library) Get(ctx context.Context, id string) (*domain.BlockDefinition, error) {
	id = trimExtension(id)
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		if !l.exists(ctx, id) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBlockNotFound, id)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	def, err := toDefinition(doc.Data, doc.Content)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", id, err)
	}
	return def, nil
}

func (l *Library) exists(ctx context.Context, id string) bool {
	entries, err := l.List(ctx)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

func toDefinition(meta BlockMetadata, body string) (*domain.BlockDefinition, error) {
	def := domain.NewDefinition()
	if meta.Name != "" {
		def.Name = meta.Name
	}
	def.Tooltip = meta.Tooltip
	if meta.Color != "" {
		def.Color = meta.Color
	}
	if meta.Style != "" {
		def.Style = meta.Style
	}
	if meta.InputsInline != nil {
		def.InputsInline = *meta.InputsInline
	}
	if strings.TrimSpace(body) != "" {
		def.PythonTemplate = strings.TrimLeft(body, "\n")
	}

	def.Connections = domain.Connections{
		Output:     meta.Output,
		OutputType: meta.OutputType,
		Previous:   meta.Previous && !meta.Output,
		Next:       meta.Next && !meta.Output,
	}

	for i, im := range meta.Inputs {
		kind, err := domain.ParseInputKind(im.Type)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		options, err := decodeOptions(im.Options)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		var def0 *string
		if im.Default != nil {
			s, err := cast.ToStringE(im.Default)
			if err != nil {
				return nil, fmt.Errorf("input %d default: %w", i, err)
			}
			def0 = &s
		}

		in := def.Inputs.Add(kind)
		_ = def.Inputs.Edit(in.ID, func(d *domain.InputDefinition) {
			if im.Name != "" {
				d.Name = im.Name
			}
			if def0 != nil {
				d.Default = def0
			}
			if options != nil {
				d.Options = options
			}
			d.Check = im.Check
		})
	}

	def.Refresh()
	return def, nil
}

func decodeOptions(raw any) ([]domain.Option, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return domain.ParseOptions(v), nil
	default:
		var opts []domain.Option
		if err := mapstructure.Decode(v, &opts); err != nil {
			return nil, fmt.Errorf("failed to decode options: %w", err)
		}
		for i := range opts {
			if opts[i].Value == "" {
				opts[i].Value = opts[i].Label
			}
		}
		return opts, nil
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
