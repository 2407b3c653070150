// Package agents holds the typed agent registry: every conversational
// agent's identity, persona and optional generation configuration.
// Profiles are validated at load time so the rest of the system never
// sees a half-formed agent.
package agents

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when an agent id does not resolve.
var ErrNotFound = errors.New("agents: not found")

// Providers the generation layer knows how to drive.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// GenConfig enables AI generation for an agent. Agents without one answer
// with a deterministic echo reply.
type GenConfig struct {
	Provider     string  `yaml:"provider" json:"provider"`
	Model        string  `yaml:"model,omitempty" json:"model,omitempty"`
	Temperature  float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	SystemPrompt string  `yaml:"systemPrompt,omitempty" json:"-"`
}

// Profile describes one agent.
type Profile struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	RoomID      string     `yaml:"room,omitempty" json:"room,omitempty"`
	Emote       string     `yaml:"emote,omitempty" json:"emote,omitempty"`
	Gen         *GenConfig `yaml:"gen,omitempty" json:"gen,omitempty"`
}

type rosterFile struct {
	DefaultAgent string    `yaml:"defaultAgent"`
	Agents       []Profile `yaml:"agents"`
}

// Registry maps agent ids to validated profiles.
type Registry struct {
	mu        sync.RWMutex
	profiles  map[string]Profile
	defaultID string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]Profile)}
}

// LoadFile reads and validates a YAML roster, replacing the registry
// contents.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("agents: read roster: %w", err)
	}
	return r.Load(data)
}

// Load parses and validates a YAML roster.
func (r *Registry) Load(data []byte) error {
	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("agents: parse roster: %w", err)
	}
	if len(file.Agents) == 0 {
		return errors.New("agents: roster has no agents")
	}

	profiles := make(map[string]Profile, len(file.Agents))
	for i, p := range file.Agents {
		if err := validate(p); err != nil {
			return fmt.Errorf("agents: roster entry %d: %w", i, err)
		}
		if _, dup := profiles[p.ID]; dup {
			return fmt.Errorf("agents: duplicate agent id %q", p.ID)
		}
		profiles[p.ID] = p
	}

	defaultID := file.DefaultAgent
	if defaultID == "" {
		defaultID = file.Agents[0].ID
	}
	if _, ok := profiles[defaultID]; !ok {
		return fmt.Errorf("agents: default agent %q not in roster", defaultID)
	}

	r.mu.Lock()
	r.profiles = profiles
	r.defaultID = defaultID
	r.mu.Unlock()
	return nil
}

func validate(p Profile) error {
	if p.ID == "" {
		return errors.New("missing id")
	}
	if p.Name == "" {
		return fmt.Errorf("agent %q: missing name", p.ID)
	}
	if p.Gen != nil {
		switch p.Gen.Provider {
		case ProviderAnthropic, ProviderOpenAI:
		default:
			return fmt.Errorf("agent %q: unknown provider %q", p.ID, p.Gen.Provider)
		}
		if p.Gen.Temperature < 0 || p.Gen.Temperature > 2 {
			return fmt.Errorf("agent %q: temperature out of range", p.ID)
		}
	}
	return nil
}

// Get resolves an agent id.
func (r *Registry) Get(id string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// DefaultID returns the agent used when a message names none.
func (r *Registry) DefaultID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultID
}

// List returns every profile sorted by id.
func (r *Registry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len reports the roster size.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}
