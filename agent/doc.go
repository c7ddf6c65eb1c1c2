// Package agent contains the roles that advance a teamwork tree and the
// static workflow configuration they run under. The package focuses on
// three concerns:
//
//  1. The capability interface every role implements (Agent.Step) and the
//     StepContext it receives
//  2. The general-purpose, provider-backed team member (ModelAgent)
//  3. The built-in coordination roles: Supervisor (task decomposition),
//     ResourcePlanner (agent selection) and FinalBoss (budget summary)
//
// Design principles:
//   - Agents are stateless; every piece of state lives in the tree
//   - A step returns a core.Outcome and never touches the tree itself
//   - Every provider call receives the same framing: system preamble, the
//     work done so far, the shared knowledge, then the request
//   - Replies are checked against their response format before use
//   - Prompt texts follow Workflow.Locale
//   - Provider error outcomes are fatal and never retried here
package agent
