package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/scribelabs/meetscribe/internal/media"
)

// Relay owns the duplex traffic of one session: it pumps stereo PCM chunks
// into a live stream and converted segments out to the consumer, preserving
// remote emission order. A stream failure triggers exactly one reconnect;
// a second failure ends the relay with the error.
type Relay struct {
	streamer Streamer
	cfg      StreamConfig
	logger   *slog.Logger

	meter      metric.Meter
	results    metric.Int64Counter
	reconnects metric.Int64Counter
}

func NewRelay(streamer Streamer, cfg StreamConfig, logger *slog.Logger) *Relay {
	r := &Relay{
		streamer: streamer,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "transcribe-relay")),
		meter:    otel.Meter("github.com/scribelabs/meetscribe/transcribe"),
	}
	if err := r.initMetrics(); err != nil {
		r.logger.Warn("failed to initialize metrics", slogError(err))
	}
	return r
}

func (r *Relay) initMetrics() error {
	results, err := r.meter.Int64Counter("meetscribe.transcribe.results",
		metric.WithDescription("Transcription results forwarded to the sink"))
	if err != nil {
		return err
	}
	reconnects, err := r.meter.Int64Counter("meetscribe.transcribe.reconnects",
		metric.WithDescription("Transcription stream reconnect attempts"))
	if err != nil {
		return err
	}
	r.results = results
	r.reconnects = reconnects
	return nil
}

// Run relays until the pcm channel closes (normal stop), ctx is cancelled
// (hard shutdown), or the stream fails twice. The segments channel is closed
// on return; the consumer must drain it until then so no finalized segment
// is dropped.
func (r *Relay) Run(ctx context.Context, pcm <-chan []byte, segments chan<- media.Segment) error {
	defer close(segments)

	stream, err := r.streamer.Open(ctx, r.cfg)
	if err != nil {
		return fmt.Errorf("open transcription stream: %w", err)
	}
	r.logger.Info("transcription stream open",
		slog.String("language", r.cfg.LanguageCode),
		slog.Int("sample_rate", r.cfg.SampleRate))

	reconnected := false
	for {
		pumpErr := r.pump(ctx, stream, pcm, segments)
		if pumpErr == nil || ctx.Err() != nil {
			return nil
		}
		if reconnected {
			return fmt.Errorf("transcription stream failed after reconnect: %w", pumpErr)
		}
		reconnected = true
		if r.reconnects != nil {
			r.reconnects.Add(ctx, 1)
		}
		r.logger.Warn("transcription stream failed, reconnecting once", slogError(pumpErr))
		stream, err = r.streamer.Open(ctx, r.cfg)
		if err != nil {
			return fmt.Errorf("reopen transcription stream: %w", err)
		}
		r.logger.Info("transcription stream reopened")
	}
}

func (r *Relay) pump(ctx context.Context, stream Stream, pcm <-chan []byte, out chan<- media.Segment) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case chunk, ok := <-pcm:
				if !ok {
					if err := stream.Close(); err != nil {
						r.logger.Warn("close transcription stream", slogError(err))
					}
					return nil
				}
				if err := stream.Send(gctx, chunk); err != nil {
					return fmt.Errorf("send audio: %w", err)
				}
			case <-gctx.Done():
				if err := stream.Close(); err != nil {
					r.logger.Warn("close transcription stream", slogError(err))
				}
				return nil
			}
		}
	})

	g.Go(func() error {
		for result := range stream.Results() {
			seg, ok := r.toSegment(result)
			if !ok {
				continue
			}
			if r.results != nil {
				r.results.Add(gctx, 1)
			}
			out <- seg
		}
		if err := stream.Err(); err != nil {
			return fmt.Errorf("receive results: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (r *Relay) toSegment(res Result) (media.Segment, bool) {
	channel, ok := media.ChannelFromWire(res.ChannelID)
	if !ok {
		r.logger.Warn("transcript for unknown channel", slog.String("channel_id", res.ChannelID))
		return media.Segment{}, false
	}
	return media.Segment{
		Channel:    channel,
		Text:       res.Text,
		Partial:    res.Partial,
		Start:      res.Start,
		End:        res.End,
		ReceivedAt: time.Now().UTC(),
	}, true
}

func slogError(err error) slog.Attr {
	return slog.String("error", err.Error())
}
