// Package model defines the provider‑agnostic boundary between teamwork and
// a reasoning provider: the component that turns a list of conversation turns
// into a structured response.
//
// Core goals:
//   - A single synchronous Chat call per agent step
//   - A discriminated Response: result, tool_call or error
//   - Structured output requested through a named JSON schema (ResponseFormat)
//   - Lightweight scripting for tests (MockProvider)
//
// Providers (e.g. OpenAI, Anthropic) implement the Provider interface from
// this package so agents remain decoupled from vendor SDKs.
package model
