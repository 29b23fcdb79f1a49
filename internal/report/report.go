// Package report renders the bot results for humans.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/djjrip/ggloop-bots/internal/store"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
	"github.com/dustin/go-humanize"
)

var (
	templateFuncs = template.FuncMap{
		"time2str": func(t time.Time) string {
			return t.UTC().Format(time.RFC3339)
		},
		"date": func(t time.Time) string {
			return t.UTC().Format("2006-01-02")
		},
		"ago": func(t *time.Time, now time.Time) string {
			if t == nil {
				return "unknown"
			}
			return humanize.RelTime(*t, now, "ago", "from now")
		},
		"upper": func(v interface{}) string {
			return strings.ToUpper(fmt.Sprint(v))
		},
		"truncate": Truncate,
		"cell": func(s string) string {
			s = strings.ReplaceAll(s, "|", `\|`)
			return strings.Join(strings.Fields(s), " ")
		},
		"first": func(n int, es []api.OutputEvent) []api.OutputEvent {
			if len(es) > n {
				return es[:n]
			}
			return es
		},
		"check_icon": checkIcon,
		"verdict":    Verdict,
	}
)

//go:embed templates/business.md
var businessTemplateStr string

//go:embed templates/output.md
var outputTemplateStr string

var (
	businessTemplate = template.Must(template.New("business.md").Funcs(templateFuncs).Parse(businessTemplateStr))
	outputTemplate   = template.Must(template.New("output.md").Funcs(templateFuncs).Parse(outputTemplateStr))
)

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}

func checkIcon(s api.CheckStatus) string {
	switch s {
	case api.CheckPass:
		return "✅"
	case api.CheckWarn:
		return "⚠️"
	default:
		return "❌"
	}
}

// Verdict answers whether the current output is enough.
func Verdict(s api.OutputStatus) string {
	switch s.State {
	case api.OutputProducing:
		return "**Yes.** You are actively shipping. Keep the momentum."
	case api.OutputStalled:
		return fmt.Sprintf("**NO.** %d days without meaningful output. This is a momentum emergency.", s.StagnationDays)
	case api.OutputMisaligned:
		return "**Wrong direction.** You're building but not distributing. Features without users = waste."
	default:
		return "**No.** The platform is ready but you're not producing visible output. Time to ship."
	}
}

// BusinessMarkdown renders STATUS.md.
func BusinessMarkdown(w io.Writer, s api.BotStatus) error {
	return businessTemplate.Execute(w, s)
}

// OutputMarkdown renders AUTONOMOUS_OUTPUT_STATUS.md.
func OutputMarkdown(w io.Writer, s api.OutputStatus) error {
	return outputTemplate.Execute(w, s)
}

func writeMarkdown(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	return store.WriteFile(path, buf.Bytes())
}

// WriteBusinessMarkdown writes STATUS.md to path.
func WriteBusinessMarkdown(path string, s api.BotStatus) error {
	return writeMarkdown(path, func(w io.Writer) error {
		return BusinessMarkdown(w, s)
	})
}

// WriteOutputMarkdown writes AUTONOMOUS_OUTPUT_STATUS.md to path.
func WriteOutputMarkdown(path string, s api.OutputStatus) error {
	return writeMarkdown(path, func(w io.Writer) error {
		return OutputMarkdown(w, s)
	})
}
