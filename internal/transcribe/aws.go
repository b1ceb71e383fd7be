package transcribe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/transcribestreaming"
	"github.com/aws/aws-sdk-go-v2/service/transcribestreaming/types"
)

type awsStreamer struct {
	client *transcribestreaming.Client
}

// NewAWSStreamer builds a Streamer backed by Amazon Transcribe streaming in
// the given region, using the ambient credential chain.
func NewAWSStreamer(ctx context.Context, region string) (Streamer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &awsStreamer{client: transcribestreaming.NewFromConfig(cfg)}, nil
}

func (s *awsStreamer) Open(ctx context.Context, cfg StreamConfig) (Stream, error) {
	input := &transcribestreaming.StartStreamTranscriptionInput{
		LanguageCode:                types.LanguageCode(cfg.LanguageCode),
		MediaEncoding:               types.MediaEncodingPcm,
		MediaSampleRateHertz:        aws.Int32(int32(cfg.SampleRate)),
		NumberOfChannels:            aws.Int32(2),
		EnableChannelIdentification: true,
	}
	if cfg.VocabularyName != "" {
		input.VocabularyName = aws.String(cfg.VocabularyName)
	}

	resp, err := s.client.StartStreamTranscription(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("start stream transcription: %w", err)
	}

	st := &awsStream{
		stream:  resp.GetStream(),
		results: make(chan Result, 32),
	}
	go st.recv()
	return st, nil
}

type awsStream struct {
	stream  *transcribestreaming.StartStreamTranscriptionEventStream
	results chan Result
	mu      sync.Mutex
	err     error
}

func (s *awsStream) Send(ctx context.Context, pcm []byte) error {
	event := &types.AudioStreamMemberAudioEvent{Value: types.AudioEvent{AudioChunk: pcm}}
	if err := s.stream.Send(ctx, event); err != nil {
		return fmt.Errorf("send audio event: %w", err)
	}
	return nil
}

func (s *awsStream) Results() <-chan Result {
	return s.results
}

func (s *awsStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the audio input. The service flushes pending finals before the
// event stream terminates.
func (s *awsStream) Close() error {
	return s.stream.Close()
}

func (s *awsStream) recv() {
	for event := range s.stream.Events() {
		te, ok := event.(*types.TranscriptResultStreamMemberTranscriptEvent)
		if !ok || te.Value.Transcript == nil {
			continue
		}
		for _, res := range te.Value.Transcript.Results {
			if r, ok := fromSDKResult(res); ok {
				s.results <- r
			}
		}
	}
	if err := s.stream.Err(); err != nil {
		s.mu.Lock()
		s.err = fmt.Errorf("transcription event stream: %w", err)
		s.mu.Unlock()
	}
	close(s.results)
}

// fromSDKResult flattens an SDK result to the first alternative. Results
// with no text yet are skipped.
func fromSDKResult(res types.Result) (Result, bool) {
	if len(res.Alternatives) == 0 {
		return Result{}, false
	}
	text := aws.ToString(res.Alternatives[0].Transcript)
	if text == "" {
		return Result{}, false
	}
	return Result{
		ChannelID: aws.ToString(res.ChannelId),
		Text:      text,
		Partial:   res.IsPartial,
		Start:     time.Duration(res.StartTime * float64(time.Second)),
		End:       time.Duration(res.EndTime * float64(time.Second)),
	}, true
}
