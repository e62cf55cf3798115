// Package logger builds the logrus logger used for diagnostics.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Formatter writes one colored line per entry:
//
//	[15:04:05] WARN: cache write failed {path=/music/a.mp3}
type Formatter struct {
	TimestampFormat string
	DisableColors   bool
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var levelColor *color.Color
	switch entry.Level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		levelColor = color.New(color.FgRed, color.Bold)
	case logrus.WarnLevel:
		levelColor = color.New(color.FgYellow, color.Bold)
	case logrus.InfoLevel:
		levelColor = color.New(color.FgCyan)
	default:
		levelColor = color.New(color.FgWhite, color.Faint)
	}

	levelText := strings.ToUpper(entry.Level.String())
	if levelText == "WARNING" {
		levelText = "WARN"
	}
	if !f.DisableColors {
		levelText = levelColor.Sprint(levelText)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s: %s", entry.Time.Format(f.TimestampFormat), levelText, entry.Message))

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, entry.Data[k])
		}
		fields := " {" + strings.Join(parts, ", ") + "}"
		if !f.DisableColors {
			fields = color.New(color.FgWhite, color.Faint).Sprint(fields)
		}
		sb.WriteString(fields)
	}

	sb.WriteString("\n")
	return []byte(sb.String()), nil
}

// New creates a logger writing to out at the given level. An unknown level
// falls back to warn. A nil out writes to stderr.
func New(level string, out io.Writer) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	log.SetLevel(lvl)

	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)

	log.SetFormatter(&Formatter{
		TimestampFormat: "15:04:05",
		DisableColors:   color.NoColor,
	})
	return log
}
