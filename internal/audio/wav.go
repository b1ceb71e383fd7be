package audio

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFlushThreshold is how many buffered PCM bytes accumulate before they
// are handed to the encoder, keeping disk writes coarse during a session.
const wavFlushThreshold = 100 * 1024

// WavSink writes interleaved stereo 16-bit PCM to a RIFF/WAVE file. Close
// flushes the remainder and finalizes the header; a sink that saw no writes
// still closes into a valid empty file.
type WavSink struct {
	mu   sync.Mutex
	file *os.File
	enc  *wav.Encoder
	buf  []byte
	rate int
}

func NewWavSink(path string, sampleRate int) (*WavSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create wav file: %w", err)
	}
	enc := wav.NewEncoder(file, sampleRate, 16, 2, 1)
	return &WavSink{file: file, enc: enc, rate: sampleRate}, nil
}

// Write buffers stereo PCM bytes and flushes once the buffer passes the
// threshold.
func (w *WavSink) Write(stereo []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, stereo...)
	if len(w.buf) < wavFlushThreshold {
		return nil
	}
	return w.flushLocked()
}

func (w *WavSink) flushLocked() error {
	if len(w.buf) == 0 {
		return nil
	}
	if len(w.buf)%2 != 0 {
		return fmt.Errorf("pcm payload not aligned")
	}
	samples := make([]int, len(w.buf)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(w.buf[i*2:])))
	}
	buffer := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: 2, SampleRate: w.rate},
		Data:   samples,
	}
	if err := w.enc.Write(buffer); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	w.buf = w.buf[:0]
	return nil
}

func (w *WavSink) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	flushErr := w.flushLocked()
	if err := w.enc.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("close wav encoder: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close wav file: %w", err)
	}
	return flushErr
}
