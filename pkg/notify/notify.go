// Package notify surfaces blocking warnings to the user.
package notify

import (
	"context"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔔 Notifier shows a warning the user has to see
type Notifier interface {
	Warn(ctx context.Context, title, message string) error
}

// 🖥️ Console prints warnings to the terminal
type Console struct {
	out io.Writer
}

var _ Notifier = (*Console)(nil)

// NewConsole creates a console notifier writing to out, or stderr if nil
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stderr
	}
	return &Console{out: out}
}

func (c *Console) Warn(ctx context.Context, title, message string) error {
	pterm.Warning.
		WithWriter(c.out).
		WithPrefix(pterm.Prefix{Text: title, Style: pterm.Warning.Prefix.Style}).
		Println(message)

	zerolog.Ctx(ctx).Warn().Str("title", title).Msg(message)
	return nil
}

// 📣 Multi delivers a warning to every notifier, collecting failures
type Multi []Notifier

var _ Notifier = Multi(nil)

func (m Multi) Warn(ctx context.Context, title, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Warn(ctx, title, message); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Errorf("notifying: %w", errors.Join(errs...))
	}
	return nil
}
