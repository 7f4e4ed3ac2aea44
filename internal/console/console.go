// Package console prints coloured status lines for the command-line tool
package console

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	titleColor   = color.New(color.FgMagenta, color.Bold)
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	successColor.Printf("✅ "+format+"\n", args...)
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	errorColor.Printf("❌ "+format+"\n", args...)
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	warningColor.Printf("⚠️  "+format+"\n", args...)
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	infoColor.Printf("ℹ️  "+format+"\n", args...)
}

// Title prints a header
func Title(format string, args ...interface{}) {
	titleColor.Printf("🎯 "+format+"\n", args...)
}

// Separator prints a horizontal rule
func Separator() {
	fmt.Println(strings.Repeat("─", 80))
}
