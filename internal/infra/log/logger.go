package log

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger
var consoleLogger *zap.Logger // stderr, SUCCESS and ERROR by default
var consoleLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
var fileLogger *zap.Logger
var initOnce sync.Once
var initError error

func init() {
	initOnce.Do(func() {
		initError = initializeLoggers()
	})
	if initError != nil {
		// stdout carries the JSON payload, so diagnostics only ever go to stderr
		fmt.Fprintf(os.Stderr, "Failed to initialize loggers: %v\n", initError)
		Logger = zap.NewNop()
		consoleLogger = zap.NewNop()
		fileLogger = zap.NewNop()
	}
}

func initializeLoggers() error {
	logsDir := "logs"
	if dir := os.Getenv("TOP_TRADERS_LOG_DIR"); dir != "" {
		logsDir = dir
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   nil,
	}

	fileEncoder := &customFileEncoder{Encoder: zapcore.NewConsoleEncoder(fileConfig)}
	fileCore := zapcore.NewCore(
		fileEncoder,
		zapcore.AddSync(getLogFileWriter(filepath.Join(logsDir, "app.log"))),
		zapcore.DebugLevel,
	)

	fileLogger = zap.New(fileCore)

	var err error
	consoleConfig := zap.NewDevelopmentConfig()
	consoleConfig.EncoderConfig.EncodeLevel = customLevelEncoder
	consoleConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleConfig.EncoderConfig.EncodeCaller = nil
	consoleConfig.Development = false
	consoleConfig.DisableStacktrace = true
	consoleConfig.Level = consoleLevel
	consoleConfig.OutputPaths = []string{"stderr"}
	consoleConfig.ErrorOutputPaths = []string{"stderr"}

	consoleLogger, err = consoleConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to build console logger: %w", err)
	}

	Logger = fileLogger
	return nil
}

// SetConsoleLevel switches the stderr logger between the default (SUCCESS and
// ERROR only) and verbose mode, where LogWarn and LogDebug are mirrored too.
func SetConsoleLevel(verbose bool) {
	if verbose {
		consoleLevel.SetLevel(zapcore.DebugLevel)
		return
	}
	consoleLevel.SetLevel(zapcore.InfoLevel)
}

func verbose() bool {
	return consoleLevel.Enabled(zapcore.DebugLevel)
}

// GenerateRequestID returns a short random id used to tie together the log
// lines of one browser session.
func GenerateRequestID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// LogNavigation records a page navigation attempt (file only).
func LogNavigation(sessionID, url string, attempt int, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("session_id", sessionID),
		zap.String("url", url),
		zap.Int("attempt", attempt),
	}, fields...)
	Logger.Info("Navigation", allFields...)
}

// LogNavigationResult records how a navigation ended. Failures are also
// shown on the console.
func LogNavigationResult(sessionID, url string, err error, durationMs int64, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("session_id", sessionID),
		zap.String("url", url),
		zap.Int64("duration_ms", durationMs),
	}, fields...)

	if err == nil {
		Logger.Info("Navigation finished", allFields...)
		return
	}

	Logger.Error("Navigation failed", append(allFields, zap.Error(err))...)
	consoleLogger.Error(fmt.Sprintf("✗ Navigation failed %s: %v", url, err))
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(colorCyan + "DEBUG" + colorReset)
	case zapcore.InfoLevel:
		enc.AppendString(colorGreen + "SUCCESS" + colorReset) // INFO on the console = SUCCESS
	case zapcore.WarnLevel:
		enc.AppendString(colorYellow + "WARN" + colorReset)
	case zapcore.ErrorLevel:
		enc.AppendString(colorRed + "ERROR" + colorReset)
	case zapcore.FatalLevel:
		enc.AppendString(colorRed + "FATAL" + colorReset)
	case zapcore.PanicLevel:
		enc.AppendString(colorRed + "PANIC" + colorReset)
	default:
		enc.AppendString(colorWhite + level.String() + colorReset)
	}
}

// LogInfo writes to the log file only.
func LogInfo(message string, fields ...zap.Field) {
	Logger.Info(message, fields...)
}

// LogSuccess writes to the log file and the console.
func LogSuccess(message string, fields ...zap.Field) {
	durationMs := extractDuration(fields)

	Logger.Info(message, fields...)

	if durationMs > 0 {
		consoleLogger.Info(fmt.Sprintf("✓ %s (%dms)", message, durationMs))
	} else {
		consoleLogger.Info("✓ " + message)
	}
}

// LogError writes to the log file and the console.
func LogError(message string, fields ...zap.Field) {
	durationMs := extractDuration(fields)

	Logger.Error(message, fields...)

	if durationMs > 0 {
		consoleLogger.Error(fmt.Sprintf("✗ %s (%dms)", message, durationMs))
	} else {
		consoleLogger.Error("✗ " + message)
	}
}

// LogWarn writes to the log file, and to the console in verbose mode.
func LogWarn(message string, fields ...zap.Field) {
	Logger.Warn(message, fields...)
	if verbose() {
		consoleLogger.Warn(message, fields...)
	}
}

// LogDebug writes to the log file, and to the console in verbose mode.
func LogDebug(message string, fields ...zap.Field) {
	Logger.Debug(message, fields...)
	if verbose() {
		consoleLogger.Debug(message, fields...)
	}
}

// LogJSON pretty-prints a JSON document into the log file.
func LogJSON(data []byte, label string) {
	var prettyJSON interface{}
	if err := json.Unmarshal(data, &prettyJSON); err == nil {
		formatted, err := json.MarshalIndent(prettyJSON, "", "  ")
		if err == nil {
			Logger.Info(label)
			Logger.Sugar().Infof("\n%s\n", string(formatted))
		} else {
			Logger.Info(label, zap.String("payload", string(data)))
		}
	} else {
		Logger.Info(label, zap.String("payload", string(data)))
	}
}

func extractDuration(fields []zap.Field) int64 {
	for _, field := range fields {
		if field.Key == "duration_ms" {
			if field.Type == zapcore.Int64Type {
				return field.Integer
			}
		}
	}
	return 0
}

const (
	// MaxLogFileSize - the log file is truncated once it grows past 50MB
	MaxLogFileSize = 50 * 1024 * 1024
)

type rotatingLogWriter struct {
	file *os.File
	path string
	mu   sync.Mutex
}

func (w *rotatingLogWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	info, err := w.file.Stat()
	if err == nil && info.Size() > MaxLogFileSize {
		w.file.Close()

		w.file, err = os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return 0, fmt.Errorf("failed to truncate log file: %w", err)
		}
	}

	return w.file.Write(p)
}

func (w *rotatingLogWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

func getLogFileWriter(path string) zapcore.WriteSyncer {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v, falling back to stderr\n", path, err)
		return zapcore.AddSync(os.Stderr)
	}

	info, err := file.Stat()
	if err == nil && info.Size() > MaxLogFileSize {
		file.Close()
		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to truncate log file %s: %v, falling back to stderr\n", path, err)
			return zapcore.AddSync(os.Stderr)
		}
	}

	writer := &rotatingLogWriter{
		file: file,
		path: path,
	}
	return zapcore.AddSync(writer)
}

// customFileEncoder writes "time     LEVEL message\t{json fields}" lines
type customFileEncoder struct {
	zapcore.Encoder
}

func (e *customFileEncoder) Clone() zapcore.Encoder {
	return &customFileEncoder{
		Encoder: e.Encoder.Clone(),
	}
}

func (e *customFileEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := buffer.NewPool().Get()

	buf.AppendString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.AppendString("     ")

	buf.AppendString(entry.Level.CapitalString())
	buf.AppendString(" ")

	if entry.Message != "" {
		buf.AppendString(entry.Message)
	}

	if len(fields) > 0 {
		buf.AppendString("\t")
		enc := zapcore.NewMapObjectEncoder()
		for _, field := range fields {
			field.AddTo(enc)
		}

		jsonData, err := json.Marshal(enc.Fields)
		if err == nil {
			buf.AppendString(string(jsonData))
		}
	}

	buf.AppendString("\n")
	return buf, nil
}
