// Package engine drives the bounded request/execute/respond loop for one
// conversation turn: it calls the completion client, executes any requested
// tool calls sequentially through a ToolExecutor, feeds the results back, and
// repeats until the model produces a final textual answer or the iteration
// cap is reached. The engine owns no storage; callers seed it with a history
// and persist the returned one.
package engine
