package log

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = zap.NewNop()

// Setup builds the process logger. When logFile is non-empty the JSON
// stream is duplicated into a size-rotated file next to stdout.
func Setup(logFile string) {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.RFC3339TimeEncoder
	jsonEnc := zapcore.NewJSONEncoder(enc)

	sink := zapcore.AddSync(os.Stdout)
	if logFile != "" {
		rotated := zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // MiB
			MaxBackups: 3,
		})
		sink = zapcore.NewMultiWriteSyncer(sink, rotated)
	}

	logger = zap.New(zapcore.NewCore(jsonEnc, sink, zapcore.InfoLevel))
}

func fieldsOf(c *fiber.Ctx, action string, err error, extra map[string]any) []zap.Field {
	fs := []zap.Field{zap.String("action", action)}
	if c != nil {
		fs = append(fs,
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fs = append(fs, zap.String("req_id", rid))
		}
	}
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	if len(extra) > 0 {
		fs = append(fs, zap.Any("fields", extra))
	}
	return fs
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	logger.Info(action, fieldsOf(c, action, nil, fields)...)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	logger.Info(action, append(fieldsOf(c, action, nil, fields), zap.String("level_tag", "audit"))...)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	logger.Warn(action, fieldsOf(c, action, nil, fields)...)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	logger.Error(action, fieldsOf(c, action, err, fields)...)
}
