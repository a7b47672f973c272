// Package openai implements the ai interfaces using OpenAI-compatible APIs.
//
// The implementation targets local OpenAI-compatible servers (Ollama, LocalAI,
// vLLM) as well as hosted services. Authentication uses a placeholder token by
// default, which local services ignore.
package openai
