package model

const (
	expertThreshold = 100
	masterThreshold = 500
	masterBandWidth = 500 // Master has no upper tier; progress tops out at 100%
)

type ReputationLevel struct {
	Level              string  `json:"level"`
	MinReputation      int     `json:"min_reputation"`
	MaxReputation      int     `json:"max_reputation"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

// LevelForReputation maps a reputation score to its tier with linear progress
// within the tier band, clamped to 100.
func LevelForReputation(reputation int) ReputationLevel {
	switch {
	case reputation < expertThreshold:
		return ReputationLevel{
			Level:              "Novice",
			MinReputation:      0,
			MaxReputation:      expertThreshold - 1,
			ProgressPercentage: clampPercent(float64(reputation) / float64(expertThreshold) * 100),
		}
	case reputation < masterThreshold:
		return ReputationLevel{
			Level:              "Expert",
			MinReputation:      expertThreshold,
			MaxReputation:      masterThreshold - 1,
			ProgressPercentage: clampPercent(float64(reputation-expertThreshold) / float64(masterThreshold-expertThreshold) * 100),
		}
	default:
		return ReputationLevel{
			Level:              "Master",
			MinReputation:      masterThreshold,
			MaxReputation:      masterThreshold + masterBandWidth - 1,
			ProgressPercentage: clampPercent(float64(reputation-masterThreshold) / float64(masterBandWidth) * 100),
		}
	}
}

func clampPercent(p float64) float64 {
	if p > 100 {
		return 100
	}
	return p
}
