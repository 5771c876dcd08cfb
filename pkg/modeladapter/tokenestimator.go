package modeladapter

import "github.com/seojunpark/axlint/pkg/chats"

// perMessageOverhead is the estimated token overhead for each message
// (role, structure delimiters, etc.).
const perMessageOverhead = 4

// TokenEstimator estimates input token counts for chat conversations.
// It uses a character-to-token heuristic (approximately 1 token per 4
// characters for English text). The zero value is ready to use.
type TokenEstimator struct{}

// charsToTokens converts a character count to an estimated token count
// using the 1-token-per-4-characters heuristic.
func charsToTokens(chars int) int {
	return (chars + 3) / 4 // round up
}

// EstimateChat estimates the total input tokens for a chat conversation,
// accounting for each message's text and per-message structural overhead.
func (e *TokenEstimator) EstimateChat(c *chats.Chat) int {
	tokens := 0

	for _, m := range c.Messages() {
		tokens += charsToTokens(len(m.Text)) + perMessageOverhead
	}

	return tokens
}
