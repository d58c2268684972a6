// Package llm provides text-generation clients used to explain recommendations.
// It supports Gemini, OpenAI, and Anthropic, and wraps them with retry logic,
// rate limiting, and a circuit breaker.
package llm
