// Package modelcfg holds the generation-architecture configuration of a
// scoring model, read once and validated eagerly so that configuration
// errors surface at construction time rather than inside a forward pass.
package modelcfg

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Architecture is the generation protocol a model follows.
type Architecture int

const (
	ArchUnknown Architecture = iota
	ArchEncoderDecoder
	ArchDecoderOnly
)

func (a Architecture) String() string {
	switch a {
	case ArchEncoderDecoder:
		return "encoder-decoder"
	case ArchDecoderOnly:
		return "decoder-only"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidArchitecture is returned when a model config declares
	// neither encoder-decoder nor decoder-only generation.
	ErrInvalidArchitecture = errors.New("model config must set is_encoder_decoder or is_decoder")
	// ErrMissingStartToken is returned when no usable start token id can
	// be resolved from the config.
	ErrMissingStartToken = errors.New("no start token id in model config")
)

// Config mirrors the architecture-relevant fields of an HF-style
// config.json. Pointer fields distinguish "not set" from zero ids.
type Config struct {
	ModelType string `json:"model_type"`

	IsEncoderDecoder bool `json:"is_encoder_decoder"`
	IsDecoder        bool `json:"is_decoder"`

	DecoderStartTokenID *int `json:"decoder_start_token_id"`
	BOSTokenID          *int `json:"bos_token_id"`
	EOSTokenID          *int `json:"eos_token_id"`

	// Decoder carries the nested decoder sub-config some composite
	// encoder-decoder checkpoints use.
	Decoder *DecoderConfig `json:"decoder"`

	VocabSize int `json:"vocab_size"`
}

// DecoderConfig is the nested decoder sub-config of composite models.
type DecoderConfig struct {
	BOSTokenID *int `json:"bos_token_id"`
	EOSTokenID *int `json:"eos_token_id"`
}

// Parse decodes an HF-style config.json payload.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse model config: %w", err)
	}
	return cfg, nil
}

// Resolved is the validated architecture record. Once built, no further
// attribute probing happens during scoring.
type Resolved struct {
	ModelType    string
	Architecture Architecture

	// StartTokenID is the resolved decoder start id. Only meaningful for
	// encoder-decoder models.
	StartTokenID int

	// BOSTokenID substitutes for an empty context in decoder-only
	// scoring. Nil when the config defines none.
	BOSTokenID *int
	EOSTokenID *int

	VocabSize int
}

// Resolve validates the config and resolves the start token eagerly.
//
// Encoder-decoder models resolve their decoder start id in priority
// order: decoder_start_token_id, then bos_token_id, then the nested
// decoder bos_token_id; exhausting all three is a configuration error.
// Decoder-only models need no start id up front; bos_token_id is kept
// around for the empty-context substitution.
func (c Config) Resolve() (Resolved, error) {
	switch {
	case c.IsEncoderDecoder:
		start, err := c.resolveDecoderStart()
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{
			ModelType:    c.ModelType,
			Architecture: ArchEncoderDecoder,
			StartTokenID: start,
			BOSTokenID:   c.BOSTokenID,
			EOSTokenID:   c.resolveEOS(),
			VocabSize:    c.VocabSize,
		}, nil
	case c.IsDecoder:
		return Resolved{
			ModelType:    c.ModelType,
			Architecture: ArchDecoderOnly,
			BOSTokenID:   c.BOSTokenID,
			EOSTokenID:   c.resolveEOS(),
			VocabSize:    c.VocabSize,
		}, nil
	default:
		return Resolved{}, fmt.Errorf("%w (model_type=%q)", ErrInvalidArchitecture, c.ModelType)
	}
}

func (c Config) resolveDecoderStart() (int, error) {
	if c.DecoderStartTokenID != nil {
		return *c.DecoderStartTokenID, nil
	}
	if c.BOSTokenID != nil {
		return *c.BOSTokenID, nil
	}
	if c.Decoder != nil && c.Decoder.BOSTokenID != nil {
		return *c.Decoder.BOSTokenID, nil
	}
	return 0, fmt.Errorf("%w: need decoder_start_token_id, bos_token_id or decoder.bos_token_id", ErrMissingStartToken)
}

func (c Config) resolveEOS() *int {
	if c.EOSTokenID != nil {
		return c.EOSTokenID
	}
	if c.Decoder != nil && c.Decoder.EOSTokenID != nil {
		return c.Decoder.EOSTokenID
	}
	return nil
}

// IntPtr is a convenience for building configs in code and tests.
func IntPtr(v int) *int { return &v }
