package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cloudedge-io/edgegate/pkg/constants"
)

type zapLogger struct {
	l *zap.Logger
}

// NewZapLogger creates a zap-backed Logger. Format is "json" or "console";
// unknown levels fall back to info.
func NewZapLogger(level, format string) (Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	parsedLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		parsedLevel = zapcore.InfoLevel
	}

	var encoder zapcore.Encoder
	if format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), parsedLevel)
	return &zapLogger{zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))}, nil
}

func (z *zapLogger) Debug(ctx context.Context, message string, fields ...Field) {
	z.l.Debug(message, z.convertFields(ctx, fields)...)
}

func (z *zapLogger) Info(ctx context.Context, message string, fields ...Field) {
	z.l.Info(message, z.convertFields(ctx, fields)...)
}

func (z *zapLogger) Warn(ctx context.Context, message string, fields ...Field) {
	z.l.Warn(message, z.convertFields(ctx, fields)...)
}

func (z *zapLogger) Error(ctx context.Context, message string, err error, fields ...Field) {
	if err != nil {
		fields = append(fields, Error(err))
	}
	z.l.Error(message, z.convertFields(ctx, fields)...)
}

func (z *zapLogger) Fatal(ctx context.Context, message string, err error, fields ...Field) {
	if err != nil {
		fields = append(fields, Error(err))
	}
	z.l.Fatal(message, z.convertFields(ctx, fields)...)
}

func (z *zapLogger) WithFields(fields ...Field) Logger {
	return &zapLogger{z.l.With(z.convertFields(context.Background(), fields)...)}
}

func (z *zapLogger) WithComponent(component string) Logger {
	return &zapLogger{z.l.With(zap.String("component", component))}
}

func (z *zapLogger) convertFields(ctx context.Context, fields []Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields)+1)

	if ctx != nil {
		if requestID, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok {
			zapFields = append(zapFields, zap.String("request_id", requestID))
		}
	}

	for _, f := range fields {
		zapFields = append(zapFields, zap.Any(f.Key, sanitizeValue(f.Key, f.Value)))
	}
	return zapFields
}
