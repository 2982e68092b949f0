package printer

import (
	"github.com/slok/cadence/internal/app/achievementlist"
	"github.com/slok/cadence/internal/app/complete"
	"github.com/slok/cadence/internal/app/systemstatus"
)

// Printer knows how to print systems, tasks and progression information in
// different formats.
type Printer interface {
	PrintStatus(result systemstatus.Result) error
	PrintWeek(result systemstatus.Result) error
	PrintCompletion(result complete.Result) error
	PrintAchievements(result achievementlist.Result) error
	PrintMessage(msg string) error
}
