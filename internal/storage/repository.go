package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/housing-calculator/internal/config"
	"github.com/iwvelando/housing-calculator/pkg/constants"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a saved scenario does not exist.
var ErrNotFound = errors.New("scenario not found")

// SavedScenario is a named snapshot of all scenario inputs.
type SavedScenario struct {
	ID      string           `json:"id" yaml:"id"`
	Name    string           `json:"name" yaml:"name"`
	Data    config.Scenarios `json:"data" yaml:"data"`
	SavedAt time.Time        `json:"savedAt" yaml:"savedAt"`
}

// Repository manages the saved scenario collection on top of a KV backend.
type Repository struct {
	mu     sync.Mutex
	kv     KV
	key    string
	logger *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewRepository creates a repository that keeps its collection in kv.
func NewRepository(kv KV, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		kv:     kv,
		key:    constants.ScenarioStorageKey,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// List returns every saved scenario in save order.
func (r *Repository) List(ctx context.Context) ([]SavedScenario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read(ctx)
}

// Save appends a new scenario under name and returns it.
func (r *Repository) Save(ctx context.Context, name string, data config.Scenarios) (SavedScenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedScenario{}, errors.New("scenario name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read(ctx)
	if err != nil {
		return SavedScenario{}, err
	}

	data = data.Normalize()
	saved := SavedScenario{
		ID:      r.newID(),
		Name:    name,
		Data:    data,
		SavedAt: r.now().UTC(),
	}
	all = append(all, saved)
	if err := r.write(ctx, all); err != nil {
		return SavedScenario{}, err
	}

	r.logger.Info("saved scenario",
		zap.String("op", "storage.Save"),
		zap.String("id", saved.ID),
		zap.String("name", saved.Name),
	)
	return saved, nil
}

// Load returns the scenario with the given id.
func (r *Repository) Load(ctx context.Context, id string) (SavedScenario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read(ctx)
	if err != nil {
		return SavedScenario{}, err
	}
	for _, s := range all {
		if s.ID == id {
			return s, nil
		}
	}
	return SavedScenario{}, fmt.Errorf("loading %s: %w", id, ErrNotFound)
}

// Update applies edit to the data of the scenario with the given id and
// stores the result with a fresh SavedAt. An error from edit leaves the
// collection unchanged.
func (r *Repository) Update(ctx context.Context, id string, edit func(config.Scenarios) (config.Scenarios, error)) (SavedScenario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read(ctx)
	if err != nil {
		return SavedScenario{}, err
	}

	for i := range all {
		if all[i].ID != id {
			continue
		}
		data, err := edit(all[i].Data)
		if err != nil {
			return SavedScenario{}, err
		}
		all[i].Data = data.Normalize()
		all[i].SavedAt = r.now().UTC()
		if err := r.write(ctx, all); err != nil {
			return SavedScenario{}, err
		}

		r.logger.Info("updated scenario",
			zap.String("op", "storage.Update"),
			zap.String("id", id),
		)
		return all[i], nil
	}
	return SavedScenario{}, fmt.Errorf("updating %s: %w", id, ErrNotFound)
}

// Delete removes the scenario with the given id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read(ctx)
	if err != nil {
		return err
	}

	kept := all[:0]
	found := false
	for _, s := range all {
		if s.ID == id {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return fmt.Errorf("deleting %s: %w", id, ErrNotFound)
	}
	if err := r.write(ctx, kept); err != nil {
		return err
	}

	r.logger.Info("deleted scenario",
		zap.String("op", "storage.Delete"),
		zap.String("id", id),
	)
	return nil
}

// Export returns the whole collection as indented JSON.
func (r *Repository) Export(ctx context.Context) ([]byte, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding scenarios: %w", err)
	}
	return data, nil
}

// ExportYAML returns the whole collection as YAML.
func (r *Repository) ExportYAML(ctx context.Context) ([]byte, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(all); err != nil {
		return nil, fmt.Errorf("encoding scenarios: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding scenarios: %w", err)
	}
	return buf.Bytes(), nil
}

// Import merges a JSON array of saved scenarios into the collection and
// returns the resulting collection size. Entries without an ID, or whose ID
// is already taken, receive a fresh one.
func (r *Repository) Import(ctx context.Context, data []byte) (int, error) {
	var incoming []SavedScenario
	if err := json.Unmarshal(data, &incoming); err != nil {
		return 0, fmt.Errorf("decoding imported scenarios: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read(ctx)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(all)+len(incoming))
	for _, s := range all {
		seen[s.ID] = struct{}{}
	}
	for _, s := range incoming {
		if _, taken := seen[s.ID]; s.ID == "" || taken {
			s.ID = r.newID()
		}
		if s.SavedAt.IsZero() {
			s.SavedAt = r.now().UTC()
		}
		s.Data = s.Data.Normalize()
		seen[s.ID] = struct{}{}
		all = append(all, s)
	}

	if err := r.write(ctx, all); err != nil {
		return 0, err
	}

	r.logger.Info("imported scenarios",
		zap.String("op", "storage.Import"),
		zap.Int("imported", len(incoming)),
		zap.Int("total", len(all)),
	)
	return len(all), nil
}

func (r *Repository) read(ctx context.Context) ([]SavedScenario, error) {
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []SavedScenario{}, nil
	}

	var all []SavedScenario
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		// A corrupt document reads as empty, the same as a missing one.
		r.logger.Error("stored scenarios are unreadable",
			zap.String("op", "storage.read"),
			zap.Error(err),
		)
		return []SavedScenario{}, nil
	}
	return all, nil
}

func (r *Repository) write(ctx context.Context, all []SavedScenario) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encoding scenarios: %w", err)
	}
	return r.kv.Set(ctx, r.key, string(data))
}
