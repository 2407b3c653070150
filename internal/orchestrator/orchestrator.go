// Package orchestrator resolves which agent a message is for and produces
// its reply. Agents with a generation configuration are driven through
// the external generation service; agents without one answer with a
// deterministic echo. Provider failures never propagate: the caller gets
// an apologetic fallback reply and the router's breaker bookkeeping
// records the failure.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/parlor-chat/parlor/internal/agents"
	"github.com/parlor-chat/parlor/internal/gen"
	"github.com/parlor-chat/parlor/internal/history"
	"github.com/parlor-chat/parlor/internal/models"
	"github.com/parlor-chat/parlor/internal/world"
)

// ErrAgentNotFound is returned when a message names an unknown agent.
var ErrAgentNotFound = errors.New("orchestrator: agent not found")

// ErrNotStarted is returned when a message arrives before Start completed.
var ErrNotStarted = errors.New("orchestrator: not started")

const apologeticFallback = "Sorry, I'm having trouble thinking straight right now. Could you try again in a moment?"

// Orchestrator owns the agent registry, the world the agents live in and
// the per-provider generation services.
type Orchestrator struct {
	registry *agents.Registry
	world    *world.World
	history  *history.Store
	services map[string]gen.Service // provider -> service
	logger   zerolog.Logger

	mu      sync.RWMutex
	started bool
}

// New creates an orchestrator. services maps provider names to generation
// backends; an agent whose provider has no service falls back to echo.
func New(registry *agents.Registry, w *world.World, hist *history.Store, services map[string]gen.Service, logger zerolog.Logger) *Orchestrator {
	if services == nil {
		services = map[string]gen.Service{}
	}
	return &Orchestrator{
		registry: registry,
		world:    w,
		history:  hist,
		services: services,
		logger:   logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Start registers every agent into the world and opens the orchestrator
// for traffic. It is a barrier: no message is handled until it returns.
func (o *Orchestrator) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return nil
	}

	for _, p := range o.registry.List() {
		e := world.NewEntity(o.world.Bus(), p.ID, world.KindBot, p.Name, p.Description)
		o.world.Register(e)
		if p.RoomID != "" {
			if err := o.world.Place(p.ID, p.RoomID); err != nil {
				return fmt.Errorf("orchestrator: place agent %q: %w", p.ID, err)
			}
		}
		e.Emit("agent.online", "", p.ID)
		o.logger.Info().Str("agent", p.ID).Str("room", p.RoomID).Msg("agent registered")
	}

	o.started = true
	return nil
}

// Stop marks the orchestrator as no longer accepting messages and takes
// the agents offline.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started {
		return
	}
	for _, p := range o.registry.List() {
		if e, ok := o.world.GetEntity(p.ID); ok {
			e.Emit("agent.offline", "", p.ID)
			e.Destroy()
		}
	}
	o.started = false
}

// ResolveAgentID maps an empty agent id to the default agent.
func (o *Orchestrator) ResolveAgentID(agentID string) string {
	if agentID == "" {
		return o.registry.DefaultID()
	}
	return agentID
}

// BackendFor returns the provider backend serving an agent, or "" when
// the agent has no generation configuration (or does not exist). The
// router uses this to pick the circuit breaker guarding the call.
func (o *Orchestrator) BackendFor(agentID string) string {
	if agentID == "" {
		agentID = o.registry.DefaultID()
	}
	p, err := o.registry.Get(agentID)
	if err != nil || p.Gen == nil {
		return ""
	}
	if _, ok := o.services[p.Gen.Provider]; !ok {
		return ""
	}
	return p.Gen.Provider
}

// HandleMessage produces a reply for msg. On a provider failure the
// returned reply is the apologetic fallback and the error wraps
// gen.ErrUpstream; callers use it for breaker bookkeeping only, the reply
// is still deliverable.
func (o *Orchestrator) HandleMessage(ctx context.Context, msg models.Message) (models.Reply, error) {
	o.mu.RLock()
	started := o.started
	o.mu.RUnlock()
	if !started {
		return models.Reply{}, ErrNotStarted
	}

	agentID := msg.AgentID
	if agentID == "" {
		agentID = o.registry.DefaultID()
	}
	profile, err := o.registry.Get(agentID)
	if err != nil {
		return models.Reply{}, fmt.Errorf("%w: %q", ErrAgentNotFound, agentID)
	}

	svc := o.serviceFor(profile)
	if svc == nil {
		return o.echoReply(profile, msg), nil
	}

	turns := o.history.Get(msg.UserID, profile.ID)
	text, err := svc.Generate(ctx, gen.Request{
		System:      profile.Gen.SystemPrompt,
		Model:       profile.Gen.Model,
		Temperature: profile.Gen.Temperature,
		History:     turns,
		Text:        msg.Text,
	})
	if err != nil {
		o.logger.Warn().Err(err).Str("agent", profile.ID).Str("provider", profile.Gen.Provider).Msg("generation failed")
		reply := models.Reply{
			Text:      apologeticFallback,
			AgentID:   profile.ID,
			Timestamp: time.Now().UTC(),
		}
		return reply, fmt.Errorf("orchestrator: %w", err)
	}

	o.history.Append(msg.UserID, profile.ID, history.Turn{Role: history.RoleUser, Text: msg.Text})
	o.history.Append(msg.UserID, profile.ID, history.Turn{Role: history.RoleAssistant, Text: text})

	reply := models.Reply{
		Text:      text,
		AgentID:   profile.ID,
		Timestamp: time.Now().UTC(),
		Emote:     profile.Emote,
	}
	o.announce(profile, reply)
	return reply, nil
}

func (o *Orchestrator) serviceFor(p agents.Profile) gen.Service {
	if p.Gen == nil {
		return nil
	}
	return o.services[p.Gen.Provider]
}

// echoReply is the deterministic fallback for agents without generation.
func (o *Orchestrator) echoReply(p agents.Profile, msg models.Message) models.Reply {
	reply := models.Reply{
		Text:      fmt.Sprintf("%s: I received your message: %q", p.Name, msg.Text),
		AgentID:   p.ID,
		Timestamp: time.Now().UTC(),
		Emote:     p.Emote,
	}
	o.announce(p, reply)
	return reply
}

// announce publishes the reply into the agent's room so other occupants
// observe the conversation.
func (o *Orchestrator) announce(p agents.Profile, reply models.Reply) {
	if p.RoomID == "" {
		return
	}
	if e, ok := o.world.GetEntity(p.ID); ok {
		e.Emit("agent.said", p.RoomID, reply.Text)
	}
}
