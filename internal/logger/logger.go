package logger

import (
	"fmt"
	"strings"
	"time"

	"llamachat-golang/relay/internal/config"
)

// LogLevel controls how much request/response detail is printed.
type LogLevel int

const (
	LogOff  LogLevel = 0 // basic logs only
	LogLow  LogLevel = 1 // + client request summaries
	LogHigh LogLevel = 2 // + provider request/response bodies
)

const (
	ColorReset  = "\x1b[0m"
	ColorGreen  = "\x1b[32m"
	ColorYellow = "\x1b[33m"
	ColorRed    = "\x1b[31m"
	ColorCyan   = "\x1b[36m"
	ColorGray   = "\x1b[90m"
	ColorBlue   = "\x1b[34m"
)

var currentLogLevel LogLevel

func Init() {
	cfg := config.Get()
	currentLogLevel = parseLogLevel(cfg.Debug)
}

func parseLogLevel(debug string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(debug)) {
	case "low":
		return LogLow
	case "high":
		return LogHigh
	default:
		return LogOff
	}
}

func GetLevel() LogLevel {
	return currentLogLevel
}

func Info(format string, args ...any) {
	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s%s%s %s[info]%s %s\n", ColorGray, timestamp, ColorReset, ColorGreen, ColorReset, msg)
}

func Warn(format string, args ...any) {
	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s%s%s %s[warn]%s %s\n", ColorGray, timestamp, ColorReset, ColorYellow, ColorReset, msg)
}

func Error(format string, args ...any) {
	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s%s%s %s[error]%s %s\n", ColorGray, timestamp, ColorReset, ColorRed, ColorReset, msg)
}

func Debug(format string, args ...any) {
	if currentLogLevel < LogLow {
		return
	}
	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s%s%s %s[debug]%s %s\n", ColorGray, timestamp, ColorReset, ColorBlue, ColorReset, msg)
}

func Request(method, path string, status int, duration time.Duration) {
	statusColor := ColorGreen
	if status >= 500 {
		statusColor = ColorRed
	} else if status >= 400 {
		statusColor = ColorYellow
	}

	fmt.Printf("%s[%s]%s %s %s%d%s %s%dms%s\n",
		ColorCyan, method, ColorReset,
		path,
		statusColor, status, ColorReset,
		ColorGray, duration.Milliseconds(), ColorReset)
}

// Security logs a gatekeeper decision against a client identity.
func Security(identity, reason string) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Printf("%s%s%s %s[block]%s %s - %s\n", ColorGray, timestamp, ColorReset, ColorRed, ColorReset, identity, reason)
}

func BackendRequest(method, url string, body []byte) {
	if currentLogLevel < LogHigh {
		return
	}
	fmt.Printf("%s[provider request]%s %s%s%s %s\n", ColorYellow, ColorReset, ColorCyan, method, ColorReset, url)
	if len(body) > 0 {
		fmt.Println(string(body))
	}
}

func BackendResponse(status int, duration time.Duration, body string) {
	if currentLogLevel < LogHigh {
		return
	}
	statusColor := ColorGreen
	if status >= 400 {
		statusColor = ColorRed
	}
	fmt.Printf("%s[provider response]%s %s%d%s %s%dms%s\n",
		ColorGreen, ColorReset, statusColor, status, ColorReset, ColorGray, duration.Milliseconds(), ColorReset)
	if body != "" {
		fmt.Println(body)
	}
}

func IsBackendLogEnabled() bool { return currentLogLevel >= LogHigh }

func Banner(port int, model string) {
	fmt.Printf(`
%s╔════════════════════════════════════════════════════════════╗
║                  %sLlama Chat Relay%s                          ║
╚════════════════════════════════════════════════════════════╝%s
`, ColorCyan, ColorGreen, ColorCyan, ColorReset)

	Info("Server starting on port %d", port)
	Info("Completion model: %s", model)
	Info("Debug level: %s", config.Get().Debug)

	if config.Get().GroqAPIKey == "" {
		Warn("GROQ_API_KEY not set - chat requests will fail")
	}
	if config.Get().AdminToken == "" {
		Warn("ADMIN_TOKEN not set - admin endpoints disabled")
	}

	fmt.Println()
}
