package submission

import (
	"fmt"
	"net/http"
	"time"

	"github.com/zjrosen/musichub/internal/client"
	"github.com/zjrosen/musichub/internal/notify"
)

// Inline messages shown next to the form.
const (
	MsgAccepted     = "Accepted (202): track registration in progress."
	MsgInvalidISRC  = "Invalid ISRC format (400). Please check and try again."
	MsgUnresolvable = "ISRC valid but unresolvable upstream (422)."
	MsgNetwork      = "Network or server error. Please try again later."
)

const (
	// DefaultNotifyDuration applies to every outcome except 422.
	DefaultNotifyDuration = 5000 * time.Millisecond
	// UpstreamNotifyDuration leaves room to read an external-service explanation.
	UpstreamNotifyDuration = 7000 * time.Millisecond
)

func requestFailedMessage(status int) string {
	return fmt.Sprintf("Request failed (%d).", status)
}

// accepted builds the success notification.
func accepted(info *client.TrackInfo) notify.Options {
	if info == nil {
		return notify.Options{
			Title:       "Track Registered",
			Description: "Track registration accepted and is being processed.",
			Variant:     notify.VariantSuccess,
			Duration:    DefaultNotifyDuration,
		}
	}
	return notify.Options{
		Title:       "Track Registered Successfully",
		Description: fmt.Sprintf("Track '%s' by '%s' has been registered and is being processed.", info.Title, info.Artists),
		Variant:     notify.VariantSuccess,
		Duration:    DefaultNotifyDuration,
	}
}

// rejected maps a failed envelope to its inline message and notification.
func rejected(env client.Envelope[client.Producer]) (string, notify.Options) {
	if env.IsNetworkError() {
		return MsgNetwork, networkError()
	}

	switch env.Status {
	case http.StatusBadRequest:
		return MsgInvalidISRC, notify.Options{
			Title:       "Invalid ISRC Format",
			Description: orDefault(env.Message, "The ISRC format is invalid. Please check and try again."),
			Variant:     notify.VariantDestructive,
			Duration:    DefaultNotifyDuration,
		}
	case http.StatusUnprocessableEntity:
		return MsgUnresolvable, notify.Options{
			Title:       "External Service Error",
			Description: orDefault(env.Message, "The ISRC is valid but could not be resolved by external services."),
			Variant:     notify.VariantDestructive,
			Duration:    UpstreamNotifyDuration,
		}
	default:
		return requestFailedMessage(env.Status), notify.Options{
			Title:       "Request Failed",
			Description: fmt.Sprintf("Server responded with status %d. Please try again later.", env.Status),
			Variant:     notify.VariantDestructive,
			Duration:    DefaultNotifyDuration,
		}
	}
}

func networkError() notify.Options {
	return notify.Options{
		Title:       "Network Error",
		Description: "Unable to connect to server. Please check your connection and try again.",
		Variant:     notify.VariantDestructive,
		Duration:    DefaultNotifyDuration,
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
