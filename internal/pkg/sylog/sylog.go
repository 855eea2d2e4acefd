// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package sylog implements a basic leveled logging system to stderr. The
// level is controlled via the PGPSELECT_MESSAGELEVEL environment variable or
// SetLevel.
package sylog

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
)

const messageLevelEnv = "PGPSELECT_MESSAGELEVEL"

type messageLevel int

// Log levels.
const (
	FatalLevel    messageLevel = iota - 4 // FatalLevel    : -4
	ErrorLevel                            // ErrorLevel    : -3
	WarnLevel                             // WarnLevel     : -2
	LogLevel                              // LogLevel      : -1
	_                                     // SKIP          : 0
	InfoLevel                             // InfoLevel     : 1
	VerboseLevel                          // VerboseLevel  : 2
	Verbose2Level                         // Verbose2Level : 3
	Verbose3Level                         // Verbose3Level : 4
	DebugLevel                            // DebugLevel    : 5
)

func (l messageLevel) String() string {
	str, ok := messageLabels[l]
	if !ok {
		str = "????"
	}
	return str
}

var messageLabels = map[messageLevel]string{
	FatalLevel:    "FATAL",
	ErrorLevel:    "ERROR",
	WarnLevel:     "WARNING",
	LogLevel:      "LOG",
	InfoLevel:     "INFO",
	VerboseLevel:  "VERBOSE",
	Verbose2Level: "VERBOSE",
	Verbose3Level: "VERBOSE",
	DebugLevel:    "DEBUG",
}

var messageColors = map[messageLevel]string{
	FatalLevel: "\x1b[31m",
	ErrorLevel: "\x1b[31m",
	WarnLevel:  "\x1b[33m",
	InfoLevel:  "\x1b[34m",
}

var colorReset = "\x1b[0m"

var loggerLevel = InfoLevel

var logWriter = io.Writer(os.Stderr)

func init() {
	if str, ok := os.LookupEnv(messageLevelEnv); ok {
		if level, err := strconv.Atoi(str); err == nil {
			SetLevel(level)
		}
	}
}

func prefix(level messageLevel) string {
	messageColor, ok := messageColors[level]
	reset := colorReset
	if !ok {
		messageColor = ""
		reset = ""
	}

	// This section builds and returns the prefix for levels < DebugLevel
	if loggerLevel < DebugLevel {
		return fmt.Sprintf("%s%-8s%s ", messageColor, level.String()+":", reset)
	}

	pc, _, _, ok := runtime.Caller(3)
	details := runtime.FuncForPC(pc)

	var funcName string
	if !ok || details == nil {
		funcName = "????()"
	} else {
		funcNameSplit := strings.Split(details.Name(), ".")
		funcName = funcNameSplit[len(funcNameSplit)-1] + "()"
	}

	uidStr := fmt.Sprintf("[U=%d,P=%d]", os.Geteuid(), os.Getpid())

	return fmt.Sprintf("%s%-8s%s%-19s%-30s", messageColor, level, reset, uidStr, funcName)
}

func writef(level messageLevel, format string, a ...interface{}) {
	if loggerLevel < level {
		return
	}

	message := fmt.Sprintf(format, a...)
	message = strings.TrimSuffix(message, "\n")

	fmt.Fprintf(logWriter, "%s%s\n", prefix(level), message)
}

// Fatalf is equivalent to a call to Errorf followed by os.Exit(255). Code
// that may be imported by other projects should NOT use Fatalf.
func Fatalf(format string, a ...interface{}) {
	writef(FatalLevel, format, a...)
	os.Exit(255)
}

// Errorf writes an ERROR level message to the log but does not exit. This
// should be called when an error is being returned to the calling thread.
func Errorf(format string, a ...interface{}) {
	writef(ErrorLevel, format, a...)
}

// Warningf writes a WARNING level message to the log.
func Warningf(format string, a ...interface{}) {
	writef(WarnLevel, format, a...)
}

// Infof writes an INFO level message to the log. By default, INFO level
// messages are always output (unless running silent).
func Infof(format string, a ...interface{}) {
	writef(InfoLevel, format, a...)
}

// Verbosef writes a VERBOSE level message to the log.
func Verbosef(format string, a ...interface{}) {
	writef(VerboseLevel, format, a...)
}

// Debugf writes a DEBUG level message to the log.
func Debugf(format string, a ...interface{}) {
	writef(DebugLevel, format, a...)
}

// SetLevel explicitly sets the loggerLevel.
func SetLevel(l int) {
	loggerLevel = messageLevel(l)
}

// GetLevel returns the current log level as integer.
func GetLevel() int {
	return int(loggerLevel)
}

// DisableColor for the logger.
func DisableColor() {
	messageColors = map[messageLevel]string{
		FatalLevel: "",
		ErrorLevel: "",
		WarnLevel:  "",
		InfoLevel:  "",
	}
	colorReset = ""
}

// GetEnvVar returns a formatted environment variable string which can later
// be interpreted by init() in a child proc.
func GetEnvVar() string {
	return fmt.Sprintf("%s=%d", messageLevelEnv, loggerLevel)
}

// Writer returns an io.Writer to pass to an external package's logging
// utility. When running quiet or silent it returns io.Discard.
func Writer() io.Writer {
	if loggerLevel <= LogLevel {
		return io.Discard
	}
	return logWriter
}
