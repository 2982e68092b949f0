package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/cadence/internal/app/achievementlist"
	"github.com/slok/cadence/internal/app/complete"
	"github.com/slok/cadence/internal/app/systemstatus"
	"github.com/slok/cadence/internal/model"
)

// JSONPrinter prints system and progression information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// taskStatusOutput represents one task's derived state.
type taskStatusOutput struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Frequency      string  `json:"frequency"`
	DueToday       bool    `json:"due_today"`
	CompletedToday bool    `json:"completed_today"`
	Streak         int     `json:"streak"`
	LongestStreak  int     `json:"longest_streak"`
	Health         string  `json:"health"`
	WeekCount      int     `json:"week_count"`
	WeekTarget     int     `json:"week_target,omitempty"`
	Consistency    float64 `json:"consistency"`
}

// systemStatusOutput represents one system's derived state.
type systemStatusOutput struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	TodayDone   int                `json:"today_done"`
	TodayDue    int                `json:"today_due"`
	Consistency float64            `json:"consistency"`
	Tasks       []taskStatusOutput `json:"tasks"`
}

// completionOutput represents the outcome of completing a task.
type completionOutput struct {
	Task             string              `json:"task"`
	Day              string              `json:"day"`
	AlreadyCompleted bool                `json:"already_completed"`
	XPAwarded        int                 `json:"xp_awarded"`
	Level            int                 `json:"level"`
	LeveledUp        bool                `json:"leveled_up"`
	Streak           int                 `json:"streak"`
	Health           string              `json:"health"`
	Unlocked         []achievementOutput `json:"unlocked,omitempty"`
}

// achievementOutput represents one achievement's state.
type achievementOutput struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Threshold  int        `json:"threshold"`
	XPReward   int        `json:"xp_reward"`
	Progress   float64    `json:"progress"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// profileOutput represents the progress profile with its achievements.
type profileOutput struct {
	Level         int                 `json:"level"`
	TotalXP       int                 `json:"total_xp"`
	XPIntoLevel   int                 `json:"xp_into_level"`
	XPForNext     int                 `json:"xp_for_next_level"`
	Completions   int                 `json:"completions"`
	LongestStreak int                 `json:"longest_streak"`
	Achievements  []achievementOutput `json:"achievements"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintStatus prints systems and their tasks in JSON format.
func (j *JSONPrinter) PrintStatus(result systemstatus.Result) error {
	out := make([]systemStatusOutput, 0, len(result.Systems))
	for _, s := range result.Systems {
		tasks := make([]taskStatusOutput, 0, len(s.Tasks))
		for _, ts := range s.Tasks {
			tasks = append(tasks, taskStatusOutput{
				ID:             ts.Task.ID,
				Name:           ts.Task.Name,
				Frequency:      ts.Task.Frequency.String(),
				DueToday:       ts.DueToday,
				CompletedToday: ts.CompletedToday,
				Streak:         ts.Streak.Current,
				LongestStreak:  ts.Streak.Longest,
				Health:         string(ts.Streak.Health),
				WeekCount:      ts.Week.Count,
				WeekTarget:     ts.Week.Target,
				Consistency:    ts.Consistency,
			})
		}
		out = append(out, systemStatusOutput{
			ID:          s.System.ID,
			Name:        s.System.Name,
			TodayDone:   s.TodayDone,
			TodayDue:    s.TodayDue,
			Consistency: s.Consistency,
			Tasks:       tasks,
		})
	}

	return j.encode(out)
}

// weekOutput represents one task's week progress.
type weekOutput struct {
	System string `json:"system"`
	Task   string `json:"task"`
	Count  int    `json:"count"`
	Target int    `json:"target,omitempty"`
	IsMet  bool   `json:"is_met"`
}

// PrintWeek prints the current week's progress per task in JSON format.
func (j *JSONPrinter) PrintWeek(result systemstatus.Result) error {
	out := []weekOutput{}
	for _, s := range result.Systems {
		for _, ts := range s.Tasks {
			out = append(out, weekOutput{
				System: s.System.Name,
				Task:   ts.Task.Name,
				Count:  ts.Week.Count,
				Target: ts.Week.Target,
				IsMet:  ts.Week.IsMet,
			})
		}
	}

	return j.encode(out)
}

// PrintCompletion prints the outcome of a completion in JSON format.
func (j *JSONPrinter) PrintCompletion(result complete.Result) error {
	return j.encode(completionOutput{
		Task:             result.Task.Name,
		Day:              FormatDay(result.Day),
		AlreadyCompleted: result.AlreadyCompleted,
		XPAwarded:        result.XPAwarded,
		Level:            result.NewLevel,
		LeveledUp:        result.LeveledUp,
		Streak:           result.Streak.Current,
		Health:           string(result.Streak.Health),
		Unlocked:         achievementsOutput(result.Unlocked),
	})
}

// PrintAchievements prints the profile and its achievements in JSON format.
func (j *JSONPrinter) PrintAchievements(result achievementlist.Result) error {
	achievements := make([]achievementOutput, 0, len(result.Achievements))
	for _, s := range result.Achievements {
		a := toAchievementOutput(s.Achievement)
		a.Progress = s.Progress
		achievements = append(achievements, a)
	}

	return j.encode(profileOutput{
		Level:         result.Profile.Level,
		TotalXP:       result.Profile.TotalXP,
		XPIntoLevel:   result.XPIntoLevel,
		XPForNext:     result.XPForNext,
		Completions:   result.Profile.CompletionsTotal,
		LongestStreak: result.Profile.LongestStreakEver,
		Achievements:  achievements,
	})
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v interface{}) error {
	encoder := json.NewEncoder(j.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func achievementsOutput(achievements []model.Achievement) []achievementOutput {
	if len(achievements) == 0 {
		return nil
	}
	out := make([]achievementOutput, 0, len(achievements))
	for _, a := range achievements {
		out = append(out, toAchievementOutput(a))
	}
	return out
}

func toAchievementOutput(a model.Achievement) achievementOutput {
	return achievementOutput{
		ID:         a.ID,
		Name:       a.Name,
		Category:   string(a.Category),
		Threshold:  a.Threshold,
		XPReward:   a.XPReward,
		Progress:   a.Progress(0),
		Unlocked:   a.Unlocked,
		UnlockedAt: a.UnlockedAt,
	}
}
