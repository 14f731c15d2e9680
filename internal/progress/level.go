package progress

// levelThresholds holds the cumulative experience needed for each level,
// starting at level 1.
var levelThresholds = []int{0, 500, 1200, 2100, 3200, 4500, 6000, 8000, 10500, 13500, 17000, 21000, 25500, 30500, 36000}

// MaxLevel is the highest reachable level.
func MaxLevel() int {
	return len(levelThresholds)
}

// LevelFor returns the highest level whose threshold is at most xp.
func LevelFor(xp int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if threshold > xp {
			break
		}
		level = i + 1
	}
	return level
}

// ThresholdFor returns the cumulative experience at which level starts.
func ThresholdFor(level int) int {
	if level < 1 {
		return 0
	}
	if level > len(levelThresholds) {
		level = len(levelThresholds)
	}
	return levelThresholds[level-1]
}

// ProgressWithinLevel returns the fraction of the way from the current
// level to the next, clamped to [0, 1]. At max level it is 1.
func ProgressWithinLevel(xp int) float64 {
	level := LevelFor(xp)
	if level >= len(levelThresholds) {
		return 1
	}
	current := levelThresholds[level-1]
	next := levelThresholds[level]
	p := float64(xp-current) / float64(next-current)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
