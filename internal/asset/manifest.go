package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

var ErrNotFound = errors.New("asset not found")

// Agent describes a playable character whose marker can be placed on a board.
type Agent struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Icon      string   `json:"icon"`
	Abilities []string `json:"abilities,omitempty"`
}

// Map describes a background map. Image is the top-down render shown under
// the board, scaled to the canvas.
type Map struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Provider supplies agent and map metadata by id.
type Provider interface {
	Agent(id string) (*Agent, error)
	Map(id string) (*Map, error)
	Agents() []Agent
	Maps() []Map
}

type Manifest struct {
	Agents []Agent `json:"agents"`
	Maps   []Map   `json:"maps"`
}

// ManifestProvider serves metadata from an in-memory manifest.
type ManifestProvider struct {
	agents map[string]Agent
	maps   map[string]Map
}

func NewManifestProvider(m Manifest) *ManifestProvider {
	p := &ManifestProvider{
		agents: make(map[string]Agent, len(m.Agents)),
		maps:   make(map[string]Map, len(m.Maps)),
	}
	for _, a := range m.Agents {
		p.agents[a.ID] = a
	}
	for _, mp := range m.Maps {
		p.maps[mp.ID] = mp
	}
	return p
}

// LoadManifest reads a manifest file. A missing file yields an empty provider.
func LoadManifest(path string) (*ManifestProvider, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewManifestProvider(Manifest{}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return NewManifestProvider(m), nil
}

func (p *ManifestProvider) Agent(id string) (*Agent, error) {
	a, ok := p.agents[id]
	if !ok {
		return nil, fmt.Errorf("%w: agent %q", ErrNotFound, id)
	}
	return &a, nil
}

func (p *ManifestProvider) Map(id string) (*Map, error) {
	m, ok := p.maps[id]
	if !ok {
		return nil, fmt.Errorf("%w: map %q", ErrNotFound, id)
	}
	return &m, nil
}

func (p *ManifestProvider) Agents() []Agent {
	out := make([]Agent, 0, len(p.agents))
	for _, a := range p.agents {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (p *ManifestProvider) Maps() []Map {
	out := make([]Map, 0, len(p.maps))
	for _, m := range p.maps {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
