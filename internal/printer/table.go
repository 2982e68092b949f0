package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/cadence/internal/app/achievementlist"
	"github.com/slok/cadence/internal/app/complete"
	"github.com/slok/cadence/internal/app/systemstatus"
	"github.com/slok/cadence/internal/model"
)

// TablePrinter prints system and progression information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintStatus prints every system with its task table.
func (t *TablePrinter) PrintStatus(result systemstatus.Result) error {
	for i, system := range result.Systems {
		if i > 0 {
			fmt.Fprintln(t.writer)
		}
		if err := t.printSystem(system); err != nil {
			return err
		}
	}

	return nil
}

func (t *TablePrinter) printSystem(s systemstatus.SystemStatus) error {
	fmt.Fprintf(t.writer, "%s  (today %d/%d, consistency %s)\n", s.System.Name, s.TodayDone, s.TodayDue, Percent(s.Consistency))

	if len(s.Tasks) == 0 {
		fmt.Fprintln(t.writer, "  No tasks.")
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "  TASK\tFREQUENCY\tTODAY\tSTREAK\tWEEK\tCONSISTENCY")
	for _, ts := range s.Tasks {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			ts.Task.Name,
			ts.Task.Frequency.String(),
			todayCell(ts),
			streakCell(ts.Streak),
			weekCell(ts),
			Percent(ts.Consistency),
		)
	}

	return nil
}

// PrintWeek prints the current week's progress per task. Raw counts are
// shown uncapped, an over-achieved weekly target reads "5/3".
func (t *TablePrinter) PrintWeek(result systemstatus.Result) error {
	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "SYSTEM\tTASK\tTHIS WEEK\tMET")
	for _, s := range result.Systems {
		for _, ts := range s.Tasks {
			met := "-"
			if ts.Week.Target > 0 {
				met = "no"
				if ts.Week.IsMet {
					met = "yes"
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.System.Name, ts.Task.Name, weekCell(ts), met)
		}
	}

	return nil
}

// PrintCompletion prints the outcome of completing a task.
func (t *TablePrinter) PrintCompletion(result complete.Result) error {
	if result.AlreadyCompleted {
		fmt.Fprintf(t.writer, "%s was already completed on %s.\n", result.Task.Name, FormatDay(result.Day))
		return nil
	}

	fmt.Fprintf(t.writer, "Completed %s on %s (+%d XP).\n", result.Task.Name, FormatDay(result.Day), result.XPAwarded)
	fmt.Fprintf(t.writer, "Streak: %s\n", streakCell(result.Streak))
	if result.Week.Target > 0 {
		fmt.Fprintf(t.writer, "Week: %d/%d\n", result.Week.Count, result.Week.Target)
	}
	if result.LeveledUp {
		fmt.Fprintf(t.writer, "Level up! You are now level %d.\n", result.NewLevel)
	}
	for _, a := range result.Unlocked {
		fmt.Fprintf(t.writer, "Achievement unlocked: %s (+%d XP)\n", a.Name, a.XPReward)
	}

	return nil
}

// PrintAchievements prints the progress profile and the achievement table.
func (t *TablePrinter) PrintAchievements(result achievementlist.Result) error {
	fmt.Fprintf(t.writer, "Level %d  (%d/%d XP into next level, %d total)\n", result.Profile.Level, result.XPIntoLevel, result.XPForNext, result.Profile.TotalXP)
	fmt.Fprintf(t.writer, "Completions: %d  Longest streak: %d\n\n", result.Profile.CompletionsTotal, result.Profile.LongestStreakEver)

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ACHIEVEMENT\tCATEGORY\tPROGRESS\tREWARD\tUNLOCKED")
	for _, s := range result.Achievements {
		unlocked := "-"
		if s.Achievement.Unlocked && s.Achievement.UnlockedAt != nil {
			unlocked = FormatDay(*s.Achievement.UnlockedAt)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d XP\t%s\n",
			s.Achievement.Name,
			s.Achievement.Category,
			Percent(s.Progress),
			s.Achievement.XPReward,
			unlocked,
		)
	}

	return nil
}

// PrintMessage prints a simple message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}

func todayCell(ts systemstatus.TaskStatus) string {
	switch {
	case ts.Task.Frequency.Kind == model.FrequencyKindWeeklyTarget:
		return "-"
	case ts.CompletedToday:
		return "done"
	case ts.DueToday:
		return "due"
	default:
		return "-"
	}
}

func streakCell(s model.Streak) string {
	return fmt.Sprintf("%d (%s)", s.Current, s.Health)
}

func weekCell(ts systemstatus.TaskStatus) string {
	if ts.Week.Target == 0 {
		return fmt.Sprintf("%d", ts.Week.Count)
	}
	return fmt.Sprintf("%d/%d", ts.Week.Count, ts.Week.Target)
}
