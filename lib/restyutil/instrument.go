package restyutil

import (
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

// InstrumentClient writes every response the client receives to output,
// `output` can be nil, in which case this is a no-op.
func InstrumentClient(client *resty.Client, prefix string, output InstrumentOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		messageId := strconv.FormatUint(atomic.AddUint64(&idcounter, 1), 10)
		if prefix != "" {
			messageId = prefix + "-" + messageId
		}
		output.Write(messageId, formatHttpMessage(res))
		slog.Debug(
			"captured http exchange",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"message_id", messageId,
		)
		return nil
	})
}
