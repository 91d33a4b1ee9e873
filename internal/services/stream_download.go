package services

import (
	"context"

	"github.com/Belphemur/ReelFetch/internal/models"
)

// streamBuffer lets a burst of progress events through without blocking the transfer
const streamBuffer = 16

// StreamDownload runs Download in a goroutine. Without an explicit Navigator the native handoff
// is delivered to the consumer as a Handoff event, so remote callers can fetch the link themselves.
func (d *mediaDownloader) StreamDownload(ctx context.Context, req TransferRequest) <-chan models.StreamResult[models.TransferEvent] {
	out := make(chan models.StreamResult[models.TransferEvent], streamBuffer)

	send := func(result models.StreamResult[models.TransferEvent]) bool {
		select {
		case out <- result:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(out)

		if req.Navigator == nil {
			req.Navigator = NavigatorFunc(func(ctx context.Context, mediaURL, filename string) error {
				if !send(models.StreamResult[models.TransferEvent]{Value: models.TransferEvent{
					Handoff: &models.Handoff{URL: mediaURL, Filename: filename},
				}}) {
					return ctx.Err()
				}
				return nil
			})
		}

		task, err := d.Download(ctx, req, func(p models.Progress) {
			send(models.StreamResult[models.TransferEvent]{Value: models.TransferEvent{Progress: &p}})
		})
		if err != nil {
			send(models.StreamResult[models.TransferEvent]{Err: err})
			return
		}
		send(models.StreamResult[models.TransferEvent]{Value: models.TransferEvent{Task: task}})
	}()

	return out
}
