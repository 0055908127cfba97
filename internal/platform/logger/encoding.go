package logger

import (
	"strings"

	"github.com/nulzo/model-registry/internal/cli"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var bufferPool = buffer.NewPool()

// coloredConsoleEncoder is the console encoder with the trailing JSON
// fields blob colorized, so selection fields like provider and model stand
// out from the message.
type coloredConsoleEncoder struct {
	zapcore.Encoder
}

func NewColoredConsoleEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &coloredConsoleEncoder{
		Encoder: zapcore.NewConsoleEncoder(cfg),
	}
}

func (c *coloredConsoleEncoder) Clone() zapcore.Encoder {
	return &coloredConsoleEncoder{
		Encoder: c.Encoder.Clone(),
	}
}

func (c *coloredConsoleEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf, err := c.Encoder.EncodeEntry(ent, fields)
	if err != nil {
		return nil, err
	}

	line := buf.String()

	// the console encoder separates the fields blob from the header with a tab
	idx := strings.Index(line, "\t{")
	if idx == -1 {
		return buf, nil
	}

	out := bufferPool.Get()
	out.AppendString(line[:idx+1])
	appendHighlighted(out, line[idx+1:])
	buf.Free()

	return out, nil
}

var literalColors = []struct {
	word  string
	color string
}{
	{"true", cli.Yellow},
	{"false", cli.Yellow},
	{"null", cli.Dim},
}

// appendHighlighted copies a JSON blob into buf, coloring object keys,
// string values, numbers and literals. Anything else is copied as is.
func appendHighlighted(buf *buffer.Buffer, blob string) {
	for i := 0; i < len(blob); {
		ch := blob[i]
		switch {
		case ch == '"':
			end := stringEnd(blob, i)
			color := cli.Green
			if followedByColon(blob, end) {
				color = cli.Blue
			}
			appendColored(buf, blob[i:end], color)
			i = end
		case ch == '-' || (ch >= '0' && ch <= '9'):
			end := i + 1
			for end < len(blob) && strings.IndexByte("0123456789.eE+-", blob[end]) >= 0 {
				end++
			}
			appendColored(buf, blob[i:end], cli.Purple)
			i = end
		default:
			matched := false
			for _, lit := range literalColors {
				if strings.HasPrefix(blob[i:], lit.word) {
					appendColored(buf, lit.word, lit.color)
					i += len(lit.word)
					matched = true
					break
				}
			}
			if !matched {
				buf.AppendByte(ch)
				i++
			}
		}
	}
}

// stringEnd returns the index just past the string literal starting at start.
func stringEnd(s string, start int) int {
	for j := start + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(s)
}

func followedByColon(s string, from int) bool {
	for ; from < len(s); from++ {
		switch s[from] {
		case ' ', '\t':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}

func appendColored(buf *buffer.Buffer, token, color string) {
	buf.AppendString(color)
	buf.AppendString(token)
	buf.AppendString(cli.Reset)
}
