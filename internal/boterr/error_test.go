package boterr_test

import (
	"errors"
	"testing"

	"github.com/djjrip/ggloop-bots/internal/boterr"
)

func TestError(t *testing.T) {
	exitErr := errors.New("exit status 128")

	tests := []struct {
		kind    error
		from    error
		format  string
		args    []interface{}
		message string
	}{
		{boterr.ErrGit, exitErr, "git %s", []interface{}{"rev-parse"}, "git rev-parse: exit status 128"},
		{boterr.ErrHTTP, nil, "unexpected status %d", []interface{}{503}, "unexpected status 503"},
		{boterr.ErrIO, exitErr, "", nil, "exit status 128"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			err := boterr.New(tt.kind, tt.from, tt.format, tt.args...)

			if err.Error() != tt.message {
				t.Errorf("unexpected message: %s", err)
			}

			if !errors.Is(err, tt.kind) {
				t.Errorf("error is %#v but reports as not", tt.kind)
			}

			if tt.from != nil && !errors.Is(err, tt.from) {
				t.Errorf("error is sub error of %#v but reports as not", tt.from)
			}
		})
	}
}
