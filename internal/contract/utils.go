package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Severity label constants.
const (
	CriticalValue = "Critical" // Critical value
	HighValue     = "High"     // High value
	ModerateValue = "Moderate" // Moderate value
	LowValue      = "Low"      // Low value
)

// Correlation strength label constants.
const (
	StrongValue = "Strong"
	MediumValue = "Medium"
	WeakValue   = "Weak"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // criticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // highColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // moderateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // lowColor represents informational / low-priority signal.
)

// GetPlainSeverity returns a plain text label for an anomaly's absolute
// z-score. This is the core logic used for CSV, JSON, and table printing.
func GetPlainSeverity(absZ float64) string {
	switch {
	case absZ >= 3.0:
		return CriticalValue
	case absZ >= 2.5:
		return HighValue
	case absZ >= 2.0:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorSeverity returns a colored severity label for console output.
// It uses GetPlainSeverity to determine the string, then applies the color.
func GetColorSeverity(absZ float64) string {
	text := GetPlainSeverity(absZ)

	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// GetPlainStrength returns a plain text label for a correlation magnitude.
func GetPlainStrength(absR float64) string {
	switch {
	case absR >= 0.7:
		return StrongValue
	case absR >= 0.4:
		return MediumValue
	default:
		return WeakValue
	}
}

// GetColorStrength returns a colored strength label for console output.
func GetColorStrength(absR float64) string {
	text := GetPlainStrength(absR)

	switch text {
	case StrongValue:
		return CriticalColor.Sprint(text)
	case MediumValue:
		return ModerateColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It returns os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s\n", msg)
}
