package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"unaligned/misc"
)

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	FileLogger    LoggerConfig `yaml:"file"`
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// Prepare returns program logger writing to console and log file, and a
// function which releases log file. Closer must be called after logger has
// been synced and is never nil.
func (conf *LoggingConfig) Prepare(rpt *Report) (*zap.Logger, func() error, error) {
	file, closer, redirected, err := conf.fileCore(rpt)
	if err != nil {
		return nil, nil, err
	}

	log := zap.New(zapcore.NewTee(conf.consoleCore(), file), zap.AddCaller())
	if len(redirected) != 0 {
		log.Warn("Log file was redirected to new location", zap.String("location", redirected))
	}
	return log.Named(misc.GetAppName()), closer, nil
}

// minLevel maps configured level onto zap level, false means nothing should
// be logged.
func minLevel(name string) (zapcore.Level, bool) {
	switch name {
	case "debug":
		return zapcore.DebugLevel, true
	case "normal":
		return zapcore.InfoLevel, true
	}
	return zapcore.InfoLevel, false
}

// consoleConfig colors levels and drops timestamps when stream is a terminal.
func consoleConfig(stream *os.File) zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if EnableColorOutput(stream) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	}
	return ec
}

// consoleCore sends errors to stderr and everything else to stdout.
func (conf *LoggingConfig) consoleCore() zapcore.Core {
	lvl, ok := minLevel(conf.ConsoleLogger.Level)
	if !ok {
		return zapcore.NewNopCore()
	}
	return zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig(os.Stdout)), zapcore.Lock(os.Stdout),
			zap.LevelEnablerFunc(func(l zapcore.Level) bool {
				return lvl <= l && l < zapcore.ErrorLevel
			})),
		zapcore.NewCore(newEncoder(consoleConfig(os.Stderr)), zapcore.Lock(os.Stderr),
			zap.LevelEnablerFunc(func(l zapcore.Level) bool {
				return l >= zapcore.ErrorLevel
			})),
	)
}

// fileCore opens log file and registers it with the report. When destination
// cannot be opened log goes to a temporary file and its name is returned.
func (conf *LoggingConfig) fileCore(rpt *Report) (zapcore.Core, func() error, string, error) {
	level := conf.FileLogger.Level
	if rpt != nil {
		// report wants everything, but log accumulated by previous runs is
		// still preserved
		level = "debug"
	}
	lvl, ok := minLevel(level)
	if !ok {
		return zapcore.NewNopCore(), func() error { return nil }, "", nil
	}

	// capture panic log if possible
	if ef, err := openLogFile(PanicLogName(conf.FileLogger.Destination), conf.FileLogger.Mode); err == nil {
		debug.SetCrashOutput(ef, debug.CrashOptions{})
		rpt.Store("panic.log", ef.Name())
		ef.Close()
	}

	var redirected string
	f, err := openLogFile(conf.FileLogger.Destination, conf.FileLogger.Mode)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+".*.log"); err != nil {
			return nil, nil, "", fmt.Errorf("unable to access file log destination (%s): %w", conf.FileLogger.Destination, err)
		}
		redirected = f.Name()
	}
	rpt.Store("final.log", f.Name())

	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zapcore.NewCore(enc, zapcore.Lock(f), zap.NewAtomicLevelAt(lvl)), f.Close, redirected, nil
}

// PanicLogName returns location of crash output for given log destination.
func PanicLogName(destination string) string {
	return filepath.Join(filepath.Dir(destination), misc.GetAppName()+"-panic.log")
}

func openLogFile(fname, mode string) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if mode == "overwrite" {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	return os.OpenFile(fname, flags, 0644)
}

// When logging error to console - do not output verbose message.

type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	var newFields []zapcore.Field
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			e := f.Interface.(error)
			f.Interface = errors.New(e.Error())
		}
		newFields = append(newFields, f)
	}
	return c.Encoder.EncodeEntry(ent, newFields)
}
