package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"ingaggio/internal/repository"
	"ingaggio/internal/schedule"
)

// FormatSchedule renders a schedule header line plus one row per task.
func FormatSchedule(rec *repository.ScheduleRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Schedule %s  %s → %s  (%d tasks)\n",
		rec.ID,
		rec.From.Format("2006-01-02"),
		rec.To.Format("2006-01-02"),
		len(rec.Tasks))

	if len(rec.Tasks) == 0 {
		return b.String()
	}

	headers := []string{"TASK", "SERVICE", "DATE", "START", "END", "HOURS", "LOCATION"}
	rows := make([][]string, 0, len(rec.Tasks))
	for _, t := range rec.Tasks {
		rows = append(rows, []string{
			shortID(t.ID),
			shortID(t.ContractedServiceID),
			t.Start.Format("2006-01-02"),
			t.Start.Format("15:04"),
			t.End.Format("15:04"),
			strconv.Itoa(t.Hours()),
			OnPremisesLabel(t.OnPremises),
		})
	}
	b.WriteString(RenderTable(headers, rows))
	b.WriteString("\n")
	return b.String()
}

// FormatViolations renders the validation outcome.
func FormatViolations(violations []schedule.Violation) string {
	if len(violations) == 0 {
		return Render(StyleGreen, "Schedule is valid.") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Render(StyleRed, fmt.Sprintf("%d violation(s) found:", len(violations))))
	for _, v := range violations {
		fmt.Fprintf(&b, "  %s %s\n", Render(StyleYellow, v.Rule+":"), v.Message)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
