// Package ai provides the provider-abstraction layer for talking to remote
// LLM backends: a uniform Client contract, concrete provider clients, a
// timeout-enforcing Service, and a typed error taxonomy.
package ai
