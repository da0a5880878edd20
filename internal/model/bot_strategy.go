package model

// Bot strategy constants
const (
	BotStrategyBest   = "best"
	BotStrategyOneOfN = "oneofn"
	BotStrategyWeak   = "weak"
)

// BotStrategyDisplayName returns a human-readable label for a strategy
func BotStrategyDisplayName(strategy string) string {
	switch strategy {
	case BotStrategyBest:
		return "Best"
	case BotStrategyOneOfN:
		return "One of N"
	case BotStrategyWeak:
		return "Weak"
	default:
		return strategy
	}
}

// ValidBotStrategies returns all valid bot strategy names
func ValidBotStrategies() []string {
	return []string{BotStrategyBest, BotStrategyOneOfN, BotStrategyWeak}
}
