package grpc

import (
	"errors"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Belphemur/ReelFetch/internal/apperrors"
)

// errorDomain is reported in ErrorInfo.Domain
const errorDomain = "reelfetch"

var reasonCodes = map[string]codes.Code{
	apperrors.ReasonInvalidURL:        codes.InvalidArgument,
	apperrors.ReasonAccessDenied:      codes.PermissionDenied,
	apperrors.ReasonNotFound:          codes.NotFound,
	apperrors.ReasonNoMedia:           codes.NotFound,
	apperrors.ReasonRateLimited:       codes.ResourceExhausted,
	apperrors.ReasonTransferFailed:    codes.Aborted,
	apperrors.ReasonNetwork:           codes.Unavailable,
	apperrors.ReasonProvider:          codes.Unavailable,
	apperrors.ReasonMalformedResponse: codes.Internal,
	apperrors.ReasonCanceled:          codes.Canceled,
	apperrors.ReasonDeadlineExceeded:  codes.DeadlineExceeded,
	apperrors.ReasonInternal:          codes.Internal,
}

// toStatus converts err into a gRPC status error carrying the user-facing message and an
// ErrorInfo detail with the reason code.
func toStatus(err error) error {
	reason := apperrors.Reason(err)
	code, ok := reasonCodes[reason]
	if !ok {
		code = codes.Internal
	}

	st := status.New(code, apperrors.UserMessage(err))
	info := &errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   errorDomain,
		Metadata: errorMetadata(err),
	}
	detailed, detailErr := st.WithDetails(info)
	if detailErr != nil {
		return st.Err()
	}
	return detailed.Err()
}

func errorMetadata(err error) map[string]string {
	metadata := map[string]string{}

	var rateLimited *apperrors.ErrRateLimited
	if errors.As(err, &rateLimited) && rateLimited.RetryAfter > 0 {
		metadata["retry_after_seconds"] = strconv.Itoa(int(rateLimited.RetryAfter.Seconds()))
	}
	var transferErr *apperrors.ErrTransfer
	if errors.As(err, &transferErr) && transferErr.LinkURL != "" {
		metadata["link_url"] = transferErr.LinkURL
	}
	return metadata
}
