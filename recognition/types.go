package recognition

import (
	"errors"
	"fmt"
)

// Encoding is the audio encoding declared to the backend.
type Encoding string

const (
	EncodingLinear16 Encoding = "LINEAR16"
	EncodingFLAC     Encoding = "FLAC"
	EncodingMulaw    Encoding = "MULAW"
)

// Defaults matching the transcoder output.
const (
	DefaultEncoding     = EncodingLinear16
	DefaultSampleRateHz = 8000
	DefaultLanguageCode = "es-ES"
)

// Config is the per-job recognition configuration.
type Config struct {
	Encoding        Encoding `yaml:"encoding" mapstructure:"encoding"`
	SampleRateHz    int32    `yaml:"sample_rate_hz" mapstructure:"sample_rate_hz"`
	LanguageCode    string   `yaml:"language_code" mapstructure:"language_code"`
	AutoPunctuation bool     `yaml:"auto_punctuation" mapstructure:"auto_punctuation"`
	// Diarization asks the backend to tag words with speakers. Tags are
	// carried in the result but do not change the transcript.
	Diarization bool `yaml:"diarization" mapstructure:"diarization"`
}

// DefaultConfig returns LINEAR16 / 8000 Hz / es-ES with punctuation.
func DefaultConfig() Config {
	return Config{
		Encoding:        DefaultEncoding,
		SampleRateHz:    DefaultSampleRateHz,
		LanguageCode:    DefaultLanguageCode,
		AutoPunctuation: true,
	}
}

// Validate checks that encoding, rate and language are set.
func (c Config) Validate() error {
	var errs []error
	switch c.Encoding {
	case EncodingLinear16, EncodingFLAC, EncodingMulaw:
	case "":
		errs = append(errs, errors.New("encoding is required"))
	default:
		errs = append(errs, fmt.Errorf("unsupported encoding %q", c.Encoding))
	}
	if c.SampleRateHz <= 0 {
		errs = append(errs, errors.New("sample_rate_hz must be positive"))
	}
	if c.LanguageCode == "" {
		errs = append(errs, errors.New("language_code is required"))
	}
	return errors.Join(errs...)
}

// Audio identifies the audio to recognize. URI is the canonical reference;
// LocalPath is a copy on disk for backends that upload the bytes themselves.
type Audio struct {
	URI       string
	LocalPath string
}

// Result is the ordered list of recognized segments.
type Result struct {
	Segments []Segment
}

// Segment is one recognized stretch of audio with ranked alternatives.
type Segment struct {
	Alternatives []Alternative
}

// Alternative is one candidate transcript for a segment.
type Alternative struct {
	Transcript string
	Confidence float32
	Words      []WordInfo
}

// WordInfo is a recognized word with its speaker tag (0 when untagged).
type WordInfo struct {
	Word       string
	SpeakerTag int32
}
