// Package model defines the provider-agnostic completion client abstraction
// used by the conversation engine.
//
// Core goals:
//   - Normalize the message/tool-call contract across vendors
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate deterministic stubbing for tests (ScriptedModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (engine, agents) remain decoupled from vendor SDKs.
package model
