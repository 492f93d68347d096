// Package core defines the shared data model of agentrelay: chat messages,
// tool calls, caller context, turn results and the tool invocation context.
// All higher-level packages (engine, agent, tool, session) communicate in
// terms of these types.
package core
