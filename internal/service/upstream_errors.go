package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-dashboard/internal/repository"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
)

// surfaceUpstream maps a client error onto the typed error returned to the
// browser. A server-reported failure keeps its status and message, falling
// back to failedMsg; a transport failure becomes a 502 with genericMsg.
func surfaceUpstream(logger *zap.Logger, action string, err error, failedMsg, genericMsg string) error {
	var upstream *repository.UpstreamError
	if errors.As(err, &upstream) {
		msg := upstream.Message
		if msg == "" {
			msg = failedMsg
		}
		return appErrors.WithStatus(appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, msg), upstream.Status)
	}
	if logger != nil {
		logger.Error("upstream unavailable", zap.String("action", action), zap.Error(err))
	}
	return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, genericMsg)
}
