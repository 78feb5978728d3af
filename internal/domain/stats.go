package domain

// Dashboard is the aggregated activity summary shown on the main screen.
type Dashboard struct {
	Streak      int
	TodayKey    string
	TodayCount  int
	DailyGoal   int
	GoalReached bool
}
