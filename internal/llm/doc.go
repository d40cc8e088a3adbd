// Package llm talks to an OpenAI-compatible chat completions endpoint.
//
// Client.Complete sends a single user prompt with a model id and output
// token cap, paces requests with a token-bucket limiter, and retries rate
// limits, server errors, timeouts, and empty content with exponential
// backoff that honours Retry-After. CompleteStructured layers the recovery
// engine on top and allows one reformatting retry for malformed output.
package llm
