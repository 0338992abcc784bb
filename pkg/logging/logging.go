// Package logging builds the zap loggers used by the command line tools.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	AutoString   = "auto"
	PlainString  = "plain"
	ColorsString = "colors"
	JSONString   = "json"

	FormatDescription = "The structure of log output. Defaults to 'auto', which colors logs when writing to a terminal. Should be one of {auto,plain,colors,json}"
	LevelDescription  = "The minimum log level. One of {debug,info,warn,error}"
)

type Format int

const (
	Plain Format = iota
	Colors
	JSON
)

// ToFormat parses a format name. "auto" selects Colors when output is a
// terminal and Plain otherwise.
func ToFormat(name string, output io.Writer) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", AutoString:
		if isTerminal(output) {
			return Colors, nil
		}
		return Plain, nil
	case PlainString:
		return Plain, nil
	case ColorsString:
		return Colors, nil
	case JSONString:
		return JSON, nil
	default:
		return Plain, fmt.Errorf("unknown log format: %q", name)
	}
}

// ToLevel parses a level name such as "info" or "DEBUG".
func ToLevel(name string) (zapcore.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level: %q", name)
	}
	return level, nil
}

// New returns a logger writing to output.
func New(levelName string, formatName string, output io.Writer) (*zap.Logger, error) {
	level, err := ToLevel(levelName)
	if err != nil {
		return nil, err
	}
	format, err := ToFormat(formatName, output)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	switch format {
	case JSON:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case Colors:
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(output), zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller()), nil
}

func isTerminal(output io.Writer) bool {
	file, ok := output.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
