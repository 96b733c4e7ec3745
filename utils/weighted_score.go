package utils

// WeightedScore ranks solved-problem counts by difficulty. The weights are a
// fixed policy; callers must coerce negative or missing counts to 0 first.
func WeightedScore(easySolved, mediumSolved, hardSolved int) int {
	return easySolved*2 + mediumSolved*5 + hardSolved*8
}
