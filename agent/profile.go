package agent

import (
	"fmt"

	"github.com/hupe1980/agentrelay/tool"
)

// Kind distinguishes the orchestrator from answering specialists. Both share
// the same Profile shape and differ only by data.
type Kind string

const (
	// KindOrchestrator marks the single routing profile whose tools dispatch
	// to specialists.
	KindOrchestrator Kind = "orchestrator"
	// KindSpecialist marks a profile that answers questions directly.
	KindSpecialist Kind = "specialist"
)

// Profile describes one agent: its registry key, display name, stable
// identity reported in results, system prompt and tool set. Profiles are
// immutable after registration.
type Profile struct {
	// Key is the registry lookup key (snake_case).
	Key string
	// Kind tags the profile as orchestrator or specialist.
	Kind Kind
	// DisplayName is the human-readable agent name cited in routed answers.
	DisplayName string
	// Identity is the stable agent id surfaced as ChatResult.AgentIdentity.
	Identity string
	// SystemPrompt seeds every turn run against this profile.
	SystemPrompt string
	// Tools is the capability set; empty for pure-knowledge responders.
	Tools []tool.Tool
}

// Registry holds the static key to profile mapping, loaded once at process
// start. It is read-only after construction and safe for concurrent use.
type Registry struct {
	profiles map[string]*Profile
	order    []string
}

// NewRegistry validates and indexes the given profiles. Keys must be unique
// and non-empty, and at most one profile may be the orchestrator.
func NewRegistry(profiles ...*Profile) (*Registry, error) {
	r := &Registry{profiles: make(map[string]*Profile, len(profiles))}

	orchestrators := 0
	for _, p := range profiles {
		if p.Key == "" {
			return nil, fmt.Errorf("profile %q has empty key", p.DisplayName)
		}
		if _, exists := r.profiles[p.Key]; exists {
			return nil, fmt.Errorf("duplicate profile key %q", p.Key)
		}
		if p.Kind == KindOrchestrator {
			orchestrators++
			if orchestrators > 1 {
				return nil, fmt.Errorf("multiple orchestrator profiles (second: %q)", p.Key)
			}
		}
		r.profiles[p.Key] = p
		r.order = append(r.order, p.Key)
	}

	return r, nil
}

// MustNewRegistry is NewRegistry that panics on invalid input. Intended for
// static registry literals wired at startup.
func MustNewRegistry(profiles ...*Profile) *Registry {
	r, err := NewRegistry(profiles...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the profile registered under key.
func (r *Registry) Get(key string) (*Profile, bool) {
	p, ok := r.profiles[key]
	return p, ok
}

// Orchestrator returns the routing profile, if one is registered.
func (r *Registry) Orchestrator() (*Profile, bool) {
	for _, key := range r.order {
		if p := r.profiles[key]; p.Kind == KindOrchestrator {
			return p, true
		}
	}
	return nil, false
}

// Specialists returns all specialist profiles in registration order.
func (r *Registry) Specialists() []*Profile {
	out := make([]*Profile, 0, len(r.order))
	for _, key := range r.order {
		if p := r.profiles[key]; p.Kind == KindSpecialist {
			out = append(out, p)
		}
	}
	return out
}
