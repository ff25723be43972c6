package voice

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/shortsai/shortsgen/internal/config"
)

// Synthesizer talks to a local VOICEVOX engine. Synthesis is a two-step
// protocol: an audio query is built from the text, patched with the
// configured voice parameters, and submitted back for WAV rendering.
type Synthesizer struct {
	baseURL string
	speaker int
	cfg     config.VoiceConfig
	client  *http.Client
}

func New(cfg config.VoiceConfig) *Synthesizer {
	return &Synthesizer{
		baseURL: fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		speaker: cfg.SpeakerID,
		cfg:     cfg,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Synthesize renders text to WAV bytes.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	query, err := s.audioQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	return s.synthesis(ctx, query)
}

// SynthesizeFile writes the rendered WAV to path and returns its
// duration in seconds.
func (s *Synthesizer) SynthesizeFile(ctx context.Context, text, path string) (float64, error) {
	data, err := s.Synthesize(ctx, text)
	if err != nil {
		return 0, err
	}
	dur, err := WAVDuration(data)
	if err != nil {
		return 0, fmt.Errorf("voicevox returned unreadable wav: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, err
	}
	return dur, nil
}

func (s *Synthesizer) audioQuery(ctx context.Context, text string) (map[string]any, error) {
	u := fmt.Sprintf("%s/audio_query?text=%s&speaker=%d",
		s.baseURL, url.QueryEscape(text), s.speaker)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audio_query request error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("audio_query status %d: %s", resp.StatusCode, body)
	}

	var query map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&query); err != nil {
		return nil, fmt.Errorf("audio_query decode error: %w", err)
	}

	// Patch the query with the configured voice parameters before
	// rendering; the engine applies them during synthesis.
	query["speedScale"] = s.cfg.SpeedScale
	query["pitchScale"] = s.cfg.PitchScale
	query["volumeScale"] = s.cfg.VolumeScale
	query["intonationScale"] = s.cfg.IntonationScale
	return query, nil
}

func (s *Synthesizer) synthesis(ctx context.Context, query map[string]any) ([]byte, error) {
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/synthesis?speaker=%d", s.baseURL, s.speaker)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("synthesis status %d: %s", resp.StatusCode, body)
	}
	return io.ReadAll(resp.Body)
}

// EstimateDuration guesses a narration length from the character count,
// used when the engine is unreachable and a silent track stands in.
func EstimateDuration(charCount int) float64 {
	const charsPerSecond = 8.0
	d := float64(charCount) / charsPerSecond
	if d < 1.0 {
		d = 1.0
	}
	return d
}

const (
	silentSampleRate = 24000 // VOICEVOX default output rate
	silentChannels   = 1
	silentBitDepth   = 16
)

// SilentWAV builds a valid mono PCM file of the given length.
func SilentWAV(duration float64) []byte {
	if duration < 0 {
		duration = 0
	}
	samples := int(duration * silentSampleRate)
	dataLen := samples * silentChannels * silentBitDepth / 8
	byteRate := silentSampleRate * silentChannels * silentBitDepth / 8

	buf := make([]byte, 0, 44+dataLen)
	w := bytes.NewBuffer(buf)

	w.WriteString("RIFF")
	binary.Write(w, binary.LittleEndian, uint32(36+dataLen))
	w.WriteString("WAVE")
	w.WriteString("fmt ")
	binary.Write(w, binary.LittleEndian, uint32(16))
	binary.Write(w, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(w, binary.LittleEndian, uint16(silentChannels))
	binary.Write(w, binary.LittleEndian, uint32(silentSampleRate))
	binary.Write(w, binary.LittleEndian, uint32(byteRate))
	binary.Write(w, binary.LittleEndian, uint16(silentChannels*silentBitDepth/8))
	binary.Write(w, binary.LittleEndian, uint16(silentBitDepth))
	w.WriteString("data")
	binary.Write(w, binary.LittleEndian, uint32(dataLen))
	w.Write(make([]byte, dataLen))

	return w.Bytes()
}

// WAVDuration reads the RIFF header and reports the PCM length in
// seconds. It walks chunks rather than assuming a 44-byte header, since
// some encoders emit LIST or fact chunks before data.
func WAVDuration(data []byte) (float64, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	var byteRate uint32
	var dataLen uint32
	haveFmt, haveData := false, false

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
		body := pos + 8
		switch id {
		case "fmt ":
			if int(size) < 16 || body+16 > len(data) {
				return 0, fmt.Errorf("truncated fmt chunk")
			}
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
			haveFmt = true
		case "data":
			dataLen = size
			haveData = true
		}
		pos = body + int(size)
		if size%2 == 1 {
			pos++ // chunks are word-aligned
		}
		if haveFmt && haveData {
			break
		}
	}

	if !haveFmt || !haveData {
		return 0, fmt.Errorf("missing fmt or data chunk")
	}
	if byteRate == 0 {
		return 0, fmt.Errorf("zero byte rate")
	}
	return float64(dataLen) / float64(byteRate), nil
}
