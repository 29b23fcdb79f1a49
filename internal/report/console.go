package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	api "github.com/djjrip/ggloop-bots/lib-ggbot"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports w is a terminal. Emoji are printed only to terminals.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func checkTag(s api.CheckStatus, emoji bool) string {
	if emoji {
		return checkIcon(s)
	}
	return "[" + s.String() + "]"
}

// PrintBusinessSummary prints the result of the Business Bot like a check list.
func PrintBusinessSummary(w io.Writer, s api.BotStatus) {
	emoji := IsTerminal(w)

	for _, c := range s.Checks {
		fmt.Fprintf(w, "   %s %s: %s\n", checkTag(c.Status, emoji), c.Name, c.Message)
	}

	fmt.Fprintln(w, strings.Repeat("━", 50))

	if emoji {
		fmt.Fprintf(w, "%s SYSTEM STATE: %s\n", s.State.Emoji(), s.State)
		fmt.Fprintf(w, "📋 Next Action: %s\n", s.NextAction)
	} else {
		fmt.Fprintf(w, "SYSTEM STATE: %s\n", s.State)
		fmt.Fprintf(w, "Next Action: %s\n", s.NextAction)
	}
}

// PrintOutputSummary prints the result of the Output Engine.
func PrintOutputSummary(w io.Writer, s api.OutputStatus) {
	emoji := IsTerminal(w)

	top := "No action required"
	if len(s.NextActions) > 0 {
		top = s.NextActions[0].Action
	}

	fmt.Fprintf(w, "   Outputs: %d in 7 days, %d in 30 days\n", s.OutputCountLast7Days, s.OutputCountLast30Days)
	fmt.Fprintf(w, "   Days since meaningful output: %d\n", s.StagnationDays)
	fmt.Fprintf(w, "   Consecutive idle days: %d\n", s.ConsecutiveIdleDays)
	fmt.Fprintln(w, strings.Repeat("═", 50))

	if emoji {
		fmt.Fprintf(w, "%s OUTPUT STATE: %s\n", s.State.Emoji(), s.State)
		fmt.Fprintf(w, "📋 Top Action: %s\n", top)
	} else {
		fmt.Fprintf(w, "OUTPUT STATE: %s\n", s.State)
		fmt.Fprintf(w, "Top Action: %s\n", top)
	}
	fmt.Fprintln(w, s.Diagnosis)
}
