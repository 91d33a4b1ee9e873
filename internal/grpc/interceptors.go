package grpc

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Belphemur/ReelFetch/internal/config"
	"github.com/Belphemur/ReelFetch/internal/errreport"
)

// interceptorLogger adapts zerolog to the go-grpc-middleware logging interface
func interceptorLogger(l zerolog.Logger) logging.Logger {
	return logging.LoggerFunc(func(_ context.Context, lvl logging.Level, msg string, fields ...any) {
		l := l.With().Fields(fields).Logger()
		switch lvl {
		case logging.LevelDebug:
			l.Debug().Msg(msg)
		case logging.LevelInfo:
			l.Info().Msg(msg)
		case logging.LevelWarn:
			l.Warn().Msg(msg)
		default:
			l.Error().Msg(msg)
		}
	})
}

// loggingOptions logs one line per finished call
func loggingOptions() []logging.Option {
	return []logging.Option{
		logging.WithLogOnEvents(logging.FinishCall),
	}
}

// recoverPanic turns a handler panic into codes.Internal and reports it
func recoverPanic(ctx context.Context, p any) error {
	logger := config.GetLogger()
	err := fmt.Errorf("panic in gRPC handler: %v", p)
	logger.Error().Err(err).Msg("Recovered from panic")
	errreport.Capture(ctx, err, map[string]string{"transport": "grpc"})
	return status.Error(codes.Internal, "internal error")
}

func recoveryOptions() []recovery.Option {
	return []recovery.Option{
		recovery.WithRecoveryHandlerContext(recoverPanic),
	}
}
