package grpc

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Belphemur/ReelFetch/internal/client"
	"github.com/Belphemur/ReelFetch/internal/config"
	"github.com/Belphemur/ReelFetch/internal/errreport"
	"github.com/Belphemur/ReelFetch/internal/models"
	"github.com/Belphemur/ReelFetch/internal/services"
)

// server implements the MediaServiceServer interface
type server struct {
	client     client.Client
	downloader services.MediaDownloader
	logger     zerolog.Logger
}

// NewServer creates a new gRPC server instance
func NewServer(c client.Client, d services.MediaDownloader) MediaServiceServer {
	return &server{
		client:     c,
		downloader: d,
		logger:     config.GetLogger(),
	}
}

// Validate implements MediaServiceServer.Validate
func (s *server) Validate(_ context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(s.client.Validate(req.GetValue())), nil
}

// Resolve implements MediaServiceServer.Resolve
func (s *server) Resolve(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	s.logger.Debug().Str("url", req.GetValue()).Msg("Resolve called")

	descriptor, err := s.client.Resolve(ctx, req.GetValue())
	if err != nil {
		return nil, s.fail(ctx, "Resolve", err)
	}

	out, err := convertDescriptorToStruct(descriptor)
	if err != nil {
		return nil, s.fail(ctx, "Resolve", err)
	}

	s.logger.Debug().Str("id", descriptor.ID).Int("qualities", len(descriptor.Qualities)).Msg("Resolve completed")
	return out, nil
}

// GenerateFilename implements MediaServiceServer.GenerateFilename
func (s *server) GenerateFilename(_ context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	id := stringField(req, "id")
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	username := stringField(req, "username")
	if username == "" {
		username = models.UnknownUsername
	}
	return wrapperspb.String(services.GenerateFilename(username, id, stringField(req, "quality"))), nil
}

// Download implements MediaServiceServer.Download
func (s *server) Download(req *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	ctx := stream.Context()
	transferReq := services.TransferRequest{
		MediaURL: stringField(req, "media_url"),
		Filename: stringField(req, "filename"),
	}
	if transferReq.MediaURL == "" {
		return status.Error(codes.InvalidArgument, "media_url is required")
	}

	s.logger.Debug().Str("url", transferReq.MediaURL).Str("filename", transferReq.Filename).Msg("Download called")

	count := 0
	for result := range s.downloader.StreamDownload(ctx, transferReq) {
		if result.Err != nil {
			return s.fail(ctx, "Download", result.Err)
		}

		event, err := convertTransferEventToStruct(result.Value)
		if err != nil {
			return s.fail(ctx, "Download", err)
		}
		if err := stream.Send(event); err != nil {
			s.logger.Debug().Err(err).Msg("Download client went away")
			return err
		}
		count++
	}

	if err := ctx.Err(); err != nil {
		return toStatus(err)
	}

	s.logger.Debug().Str("url", transferReq.MediaURL).Int("events", count).Msg("Download completed")
	return nil
}

// fail logs err, reports it when unexpected and converts it to a status error
func (s *server) fail(ctx context.Context, method string, err error) error {
	s.logger.Error().Err(err).Str("method", method).Msg("gRPC call failed")
	errreport.Capture(ctx, err, map[string]string{"transport": "grpc", "method": method})
	return toStatus(err)
}
