package boterr

import (
	"fmt"
	"strings"
)

// List carries every problem that was found in one pass, like all mistakes in a configuration file.
type List struct {
	// What is the kind of the problems.
	What error

	Problems []error
}

func (l List) Error() string {
	var b strings.Builder

	b.WriteString(l.What.Error())
	b.WriteByte(':')

	for _, p := range l.Problems {
		for _, line := range strings.Split(p.Error(), "\n") {
			b.WriteString("\n  ")
			b.WriteString(line)
		}
	}

	return b.String()
}

// Unwrap returns the kind and the problems, so errors.Is can find any of them.
func (l List) Unwrap() []error {
	return append([]error{l.What}, l.Problems...)
}

// ListBuilder collects problems to build a List.
type ListBuilder struct {
	What error

	problems []error
}

func (lb *ListBuilder) Push(err ...error) {
	lb.problems = append(lb.problems, err...)
}

// Pushf pushes a problem made by fmt.Errorf.
func (lb *ListBuilder) Pushf(format string, values ...interface{}) {
	lb.Push(fmt.Errorf(format, values...))
}

// Build returns a List, or nil if nothing was pushed.
func (lb *ListBuilder) Build() error {
	if len(lb.problems) == 0 {
		return nil
	}

	return List{
		What:     lb.What,
		Problems: lb.problems,
	}
}
