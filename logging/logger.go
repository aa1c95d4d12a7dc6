package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/qiibee/crowdsim/logging/colors"
	"github.com/rs/zerolog"
)

// GlobalLogger is disabled until the CLI configures it. Each package creates a sub-logger from it so that log lines
// can be filtered by the package which emitted them.
var GlobalLogger = NewLogger(zerolog.Disabled, false)

// Logger logs events to the console with custom formatting and to any number of additional io.Writer channels, in
// structured or unstructured form.
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// multiLogger outputs logs to every writer in writers.
	multiLogger zerolog.Logger

	// consoleLogger outputs colorized, unstructured logs to stdout.
	consoleLogger zerolog.Logger

	// writers describes the io.Writer channels the multiLogger outputs to.
	writers []io.Writer

	// context holds the key-value pairs added through NewSubLogger, so they survive AddWriter rebuilding the
	// multiLogger.
	context [][2]string
}

// LogFormat describes what format to log in
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// NewLogger creates a Logger with a specific log level. The Logger outputs to console, if enabled, and to any number
// of io.Writer channels.
func NewLogger(level zerolog.Level, consoleEnabled bool, writers ...io.Writer) *Logger {
	logger := &Logger{
		level:         level,
		consoleLogger: zerolog.New(os.Stdout).Level(zerolog.Disabled),
		writers:       writers,
	}
	if consoleEnabled {
		logger.consoleLogger = zerolog.New(setupDefaultFormatting(zerolog.ConsoleWriter{Out: os.Stdout}, level)).Level(level)
	}
	logger.rebuildMultiLogger()
	return logger
}

// LevelFromDebug returns the log level used when debug mode is enabled or disabled.
func LevelFromDebug(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// rebuildMultiLogger recreates the multiLogger from the current writers, level and context.
func (l *Logger) rebuildMultiLogger() {
	if len(l.writers) == 0 {
		l.multiLogger = zerolog.New(io.Discard).Level(zerolog.Disabled)
		return
	}
	ctx := zerolog.New(zerolog.MultiLevelWriter(l.writers...)).Level(l.level).With().Timestamp()
	for _, kv := range l.context {
		ctx = ctx.Str(kv[0], kv[1])
	}
	l.multiLogger = ctx.Logger()
}

// NewSubLogger creates a new Logger with unique context in the form of a key-value pair. Each package holds its own
// sub-logger so that its logs can be grepped by key.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	subContext := make([][2]string, len(l.context), len(l.context)+1)
	copy(subContext, l.context)
	subContext = append(subContext, [2]string{key, value})

	return &Logger{
		level:         l.level,
		multiLogger:   l.multiLogger.With().Str(key, value).Logger(),
		consoleLogger: l.consoleLogger.With().Str(key, value).Logger(),
		writers:       l.writers,
		context:       subContext,
	}
}

// AddWriter adds a writer to the list of channels where log output will be sent. Unstructured writers receive
// console-style output without ANSI coloring. Adding the same writer twice is a no-op.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat) {
	for _, w := range l.writers {
		if writer == w {
			return
		}
	}

	if format == UNSTRUCTURED {
		writer = zerolog.ConsoleWriter{Out: writer, NoColor: true}
	}
	l.writers = append(l.writers, writer)
	l.rebuildMultiLogger()
}

// Level returns the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel updates the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.multiLogger = l.multiLogger.Level(level)
	l.consoleLogger = l.consoleLogger.Level(level)
}

// Trace logs a trace event
func (l *Logger) Trace(args ...any) {
	l.log(zerolog.TraceLevel, args...)
}

// Debug logs a debug event
func (l *Logger) Debug(args ...any) {
	l.log(zerolog.DebugLevel, args...)
}

// Info logs an info event
func (l *Logger) Info(args ...any) {
	l.log(zerolog.InfoLevel, args...)
}

// Warn logs a warning event
func (l *Logger) Warn(args ...any) {
	l.log(zerolog.WarnLevel, args...)
}

// Error logs an error event
func (l *Logger) Error(args ...any) {
	l.log(zerolog.ErrorLevel, args...)
}

// Panic logs a panic event to every channel and then panics.
func (l *Logger) Panic(args ...any) {
	l.log(zerolog.PanicLevel, args...)
}

// log builds the console and multi-log events for a level and sends them. Stack traces are attached to errors when
// the logger runs at debug level or below, and always for panics.
func (l *Logger) log(level zerolog.Level, args ...any) {
	consoleMsg, multiMsg, err, info := buildMsgs(args...)

	consoleLog := l.consoleLogger.WithLevel(level)
	multiLog := l.multiLogger.WithLevel(level)

	// Stack must be requested before the error is attached for the trace to be marshalled.
	if level == zerolog.PanicLevel || l.level <= zerolog.DebugLevel {
		consoleLog = consoleLog.Stack()
		multiLog = multiLog.Stack()
	}
	consoleLog = consoleLog.Err(err)
	multiLog = multiLog.Err(err)

	if info != nil {
		consoleLog = consoleLog.Any("info", info)
		multiLog = multiLog.Any("info", info)
	}

	multiLog.Msg(multiMsg)
	consoleLog.Msg(consoleMsg)
	if level == zerolog.PanicLevel {
		panic(multiMsg)
	}
}

// buildMsgs takes a variadic list of arguments and returns a colorized message for the console, a plain message for
// other channels, and optionally an error and a StructuredLogInfo. A colors.ColorFunc argument switches the color of
// the arguments that follow it.
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	if len(args) == 0 {
		return "", "", nil, nil
	}

	colorCtx := colors.Reset
	consoleOutput := make([]string, 0, len(args))
	fileOutput := make([]string, 0, len(args))
	var info StructuredLogInfo
	var err error

	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			colorCtx = t
		case StructuredLogInfo:
			// Only one structured log info is kept per message.
			info = t
		case error:
			// Only one error is kept per message.
			err = t
		default:
			consoleOutput = append(consoleOutput, colorCtx(t))
			fileOutput = append(fileOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(consoleOutput, ""), strings.Join(fileOutput, ""), err, info
}

// setupDefaultFormatting drops timestamps from console output and replaces level names with colored markers.
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	writer.FormatTimestamp = func(i any) string {
		return ""
	}

	writer.FormatLevel = func(i any) string {
		levelStr, _ := i.(string)
		parsedLevel, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			return levelStr
		}

		switch parsedLevel {
		case zerolog.TraceLevel:
			return colors.CyanBold(zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return colors.BlueBold(zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return colors.GreenBold(colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			return colors.YellowBold(zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return colors.RedBold(zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return colors.RedBold(zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return colors.RedBold(zerolog.LevelPanicValue)
		default:
			return levelStr
		}
	}

	// Above debug level, the module key is noise on the console.
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module"}
	}
	return writer
}
