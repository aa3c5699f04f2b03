// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	rowIndent   = 4  // spaces to indent location rows
	coordWidth  = 11 // width of a latitude or longitude column
	dateWidth   = 20 // width of the created-at column
	statusWidth = 12 // width of the trip status column
)

// 🧳 SessionLine is a trip session as the console shows it
type SessionLine struct {
	Started   bool
	TripID    string
	Username  string
	StartTime time.Time
	Elapsed   time.Duration
	Panel     string
}

// 📍 LocationLine is one recorded location
type LocationLine struct {
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
	IsToday   bool
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	last    *SessionLine
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🏭 NewWithZerolog creates a logger that mirrors console lines to zlog
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// ⏱️ FormatElapsed renders a duration as "Xh: Ym: Zs"
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total / 60) % 60
	seconds := total % 60
	return fmt.Sprintf("%dh: %dm: %ds", hours, minutes, seconds)
}

// 📝 formatSession formats a session for display
func (l *Logger) formatSession(s SessionLine) string {
	if !s.Started {
		return fmt.Sprintf("%s %s",
			color.New(color.Faint).Sprint("○"),
			color.New(color.FgYellow).Sprint(fmt.Sprintf("%-*s", statusWidth, "not started")))
	}

	return fmt.Sprintf("%s %s %s %s %s",
		color.New(color.FgGreen).Sprint("●"),
		color.New(color.FgGreen).Sprint(fmt.Sprintf("%-*s", statusWidth, "in progress")),
		color.New(color.Bold).Sprint(FormatElapsed(s.Elapsed)),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgCyan).Sprint(s.TripID))
}

// 📝 formatLocation formats a location for display
func (l *Logger) formatLocation(loc LocationLine) string {
	symbol := '•'
	symbolColor := color.FgHiBlack
	if loc.IsToday {
		symbol = '◆'
		symbolColor = color.FgRed
	}

	created := "-"
	if !loc.CreatedAt.IsZero() {
		created = loc.CreatedAt.Format("2006-01-02 15:04:05")
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", rowIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%*.5f", coordWidth, loc.Latitude),
		fmt.Sprintf("%*.5f", coordWidth, loc.Longitude),
		fmt.Sprintf("%-*s", dateWidth, created))
}

// 📝 LogSession prints a session line
func (l *Logger) LogSession(ctx context.Context, s SessionLine) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.last = &s
	fmt.Fprintln(l.console, l.formatSession(s))

	l.zlog.Info().
		Bool("started", s.Started).
		Str("trip_id", s.TripID).
		Str("username", s.Username).
		Dur("elapsed", s.Elapsed).
		Str("panel", s.Panel).
		Msg("trip session")
}

// 📝 LogSessionChange prints a session line unless only the elapsed
// seconds are unchanged since the last one
func (l *Logger) LogSessionChange(ctx context.Context, s SessionLine) bool {
	l.mu.Lock()
	last := l.last
	l.mu.Unlock()

	if last != nil && last.Started == s.Started && last.TripID == s.TripID &&
		last.Elapsed/time.Second == s.Elapsed/time.Second && last.Panel == s.Panel {
		return false
	}
	l.LogSession(ctx, s)
	return true
}

// 📝 LogLocation prints a location line
func (l *Logger) LogLocation(ctx context.Context, loc LocationLine) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatLocation(loc))

	l.zlog.Debug().
		Float64("latitude", loc.Latitude).
		Float64("longitude", loc.Longitude).
		Time("created_at", loc.CreatedAt).
		Bool("today", loc.IsToday).
		Msg("location")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	appText := color.New(color.Bold, color.FgCyan).Sprint("triplog")
	fmt.Fprintf(l.console, "\n%s %s\n\n", appText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
