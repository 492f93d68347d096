// Package agent provides the top-level chat surface: agent profiles, the
// static registry, the orchestrator's per-specialist routing tools, and the
// Manager that resolves agents, snapshots session history and drives turns
// through the conversation engine.
package agent
