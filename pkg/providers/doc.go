// Package providers holds the concrete LLM completion adapters and the
// factory registry that builds them.
//
// It is organized into sub-packages:
//   - [github.com/seojunpark/axlint/pkg/providers/provider]: factory registry keyed by provider name
//   - [github.com/seojunpark/axlint/pkg/providers/openai]: OpenAI Chat Completions adapter
//   - [github.com/seojunpark/axlint/pkg/providers/anthropic]: Anthropic Messages adapter
//   - [github.com/seojunpark/axlint/pkg/providers/gemini]: Google Gemini adapter
//
// Adapters are built from a resolved credential plus optional config
// overrides; callers obtain one through provider.Build rather than
// importing the concrete packages.
package providers
