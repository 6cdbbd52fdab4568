package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building.
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a key builder with an environment-based prefix so
// staging and production can share a Redis instance without key collisions.
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{prefix: prefix}
}

// BuildKey constructs a Redis key with the environment prefix.
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix.
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

func (kb *KeyBuilder) KeyPollResults(pollID int64) string {
	return kb.BuildKey(fmt.Sprintf(KeyPollResults, pollID))
}

func (kb *KeyBuilder) KeyVoterVoted(pollID int64, voterIdentifier string) string {
	return kb.BuildKey(fmt.Sprintf(KeyVoterVoted, pollID, voterIdentifier))
}

func (kb *KeyBuilder) KeySession(token string) string {
	return kb.BuildKey(fmt.Sprintf(KeySession, token))
}

func (kb *KeyBuilder) KeyRateLimit(scope, subject string) string {
	return kb.BuildKey(fmt.Sprintf(KeyRateLimit, scope, subject))
}

// KeyCustom builds a key from an arbitrary pattern.
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	return kb.BuildKey(fmt.Sprintf(pattern, args...))
}
