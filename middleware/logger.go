package middleware

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dzonerzy/go-clip/internal/pool"
)

// now is replaced in tests.
var now = time.Now

type logStage string

const (
	stageStart   logStage = "START"
	stageSuccess logStage = "SUCCESS"
	stageError   logStage = "ERROR"
)

// minLevel is the configured level a stage needs to be written.
func (s logStage) minLevel() LogLevel {
	switch s {
	case stageError:
		return LogLevelError
	case stageStart:
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}

var requests = pool.NewPoolWithReset(
	func() *RequestInfo { return &RequestInfo{} },
	func(info *RequestInfo) { *info = RequestInfo{Args: info.Args[:0]} },
)

// Logger logs every handler invocation to stderr.
func Logger(options ...MiddlewareOption) Middleware {
	return LoggerWithWriter(os.Stderr, options...)
}

// LoggerWithWriter logs every handler invocation to writer. The command is
// shown by its full path when the command exposes one. At Debug level a
// START line precedes the SUCCESS or ERROR line.
func LoggerWithWriter(writer io.Writer, options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	encode := encodeText
	if config.LogFormat == LogFormatJSON {
		encode = encodeJSON
	}

	emit := func(info *RequestInfo, stage logStage) {
		if config.LogLevel < stage.minLevel() {
			return
		}
		buf := pool.GetBuffer()
		defer pool.PutBuffer(buf)
		*buf = encode(*buf, info, stage, config.IncludeArgs)
		//nolint:errcheck,gosec // logging is best-effort
		writer.Write(*buf)
	}

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			if config.LogLevel == LogLevelNone || writer == nil {
				return next(ctx)
			}

			info := requests.Get()
			defer requests.Put(info)

			info.Command = commandPath(ctx)
			info.Args = append(info.Args, ctx.Args()...)
			info.StartTime = now()
			emit(info, stageStart)

			err := next(ctx)

			info.Duration = now().Sub(info.StartTime)
			info.Error = err
			if err != nil {
				emit(info, stageError)
			} else {
				emit(info, stageSuccess)
			}
			return err
		}
	}
}

// commandPath joins the command path when the command implements
// Path() []string, as *clip.Command does.
func commandPath(ctx Context) string {
	if p, ok := ctx.Command().(interface{ Path() []string }); ok {
		if path := p.Path(); len(path) > 0 {
			return strings.Join(path, " ")
		}
	}
	return getCommandName(ctx)
}

func encodeText(buf []byte, info *RequestInfo, stage logStage, withArgs bool) []byte {
	buf = append(buf, '[')
	buf = info.StartTime.AppendFormat(buf, "2006-01-02 15:04:05")
	buf = append(buf, "] "...)
	buf = append(buf, stage...)
	buf = append(buf, " command="...)
	buf = append(buf, info.Command...)
	if info.Duration > 0 {
		buf = append(buf, " duration="...)
		buf = append(buf, info.Duration.String()...)
	}
	if withArgs && len(info.Args) > 0 {
		buf = append(buf, " args="...)
		buf = append(buf, strings.Join(info.Args, " ")...)
	}
	if info.Error != nil {
		buf = append(buf, " error="...)
		buf = strconv.AppendQuote(buf, info.Error.Error())
	}
	return append(buf, '\n')
}

type jsonRecord struct {
	Timestamp  string   `json:"timestamp"`
	Level      logStage `json:"level"`
	Command    string   `json:"command"`
	DurationMS *int64   `json:"duration_ms,omitempty"`
	Args       []string `json:"args,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func encodeJSON(buf []byte, info *RequestInfo, stage logStage, withArgs bool) []byte {
	rec := jsonRecord{
		Timestamp: info.StartTime.Format(time.RFC3339),
		Level:     stage,
		Command:   info.Command,
	}
	if info.Duration > 0 {
		ms := info.Duration.Milliseconds()
		rec.DurationMS = &ms
	}
	if withArgs {
		rec.Args = info.Args
	}
	if info.Error != nil {
		rec.Error = info.Error.Error()
	}
	enc, err := json.Marshal(rec)
	if err != nil {
		return buf
	}
	buf = append(buf, enc...)
	return append(buf, '\n')
}

// DebugLogger logs START, SUCCESS and ERROR lines.
func DebugLogger() Middleware {
	return Logger(WithLogLevel(LogLevelDebug))
}

// ErrorLogger logs failed invocations only.
func ErrorLogger() Middleware {
	return Logger(WithLogLevel(LogLevelError))
}

// JSONLogger logs one JSON object per line.
func JSONLogger() Middleware {
	return Logger(WithLogFormat(LogFormatJSON))
}
