package tokenizer

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// Vocab is a word-level tokenizer over a fixed vocabulary. It exists for
// tests, the CLI demo path and any backend whose vocabulary is a plain
// token list; real subword tokenizers plug in behind the Tokenizer
// interface instead.
type Vocab struct {
	tokens []string
	index  map[string]int
	unkID  int
	sepID  int
}

type vocabFile struct {
	Tokens     []string `json:"tokens"`
	UNKTokenID *int     `json:"unk_token_id"`
	SEPTokenID *int     `json:"sep_token_id"`
}

// NewVocab builds a tokenizer over tokens. unkID must index a token that
// stands in for out-of-vocabulary words.
func NewVocab(tokens []string, unkID int) (*Vocab, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("vocab is empty")
	}
	if unkID < 0 || unkID >= len(tokens) {
		return nil, fmt.Errorf("unk token id %d out of range [0,%d)", unkID, len(tokens))
	}
	idx := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		if _, dup := idx[tok]; dup {
			return nil, fmt.Errorf("duplicate token %q at id %d", tok, i)
		}
		idx[tok] = i
	}
	return &Vocab{tokens: tokens, index: idx, unkID: unkID, sepID: -1}, nil
}

// LoadVocab reads a vocab JSON file: {"tokens": [...], "unk_token_id": n,
// "sep_token_id": m}. unk_token_id defaults to 0, sep_token_id to none.
func LoadVocab(path string) (*Vocab, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vf vocabFile
	if err := json.Unmarshal(raw, &vf); err != nil {
		return nil, fmt.Errorf("parse vocab json: %w", err)
	}
	unk := 0
	if vf.UNKTokenID != nil {
		unk = *vf.UNKTokenID
	}
	v, err := NewVocab(vf.Tokens, unk)
	if err != nil {
		return nil, err
	}
	if vf.SEPTokenID != nil {
		if *vf.SEPTokenID < 0 || *vf.SEPTokenID >= len(vf.Tokens) {
			return nil, fmt.Errorf("sep token id %d out of range [0,%d)", *vf.SEPTokenID, len(vf.Tokens))
		}
		v.sepID = *vf.SEPTokenID
	}
	return v, nil
}

// Size returns the vocabulary size.
func (v *Vocab) Size() int { return len(v.tokens) }

// TokenString returns the string for a token id when available.
func (v *Vocab) TokenString(id int) string {
	if id < 0 || id >= len(v.tokens) {
		return ""
	}
	return v.tokens[id]
}

// Encode splits text on whitespace and maps each word to its id. Unknown
// words map to the unk token. Empty text encodes to an empty sequence.
func (v *Vocab) Encode(text string) ([]int, error) {
	words := strings.Fields(text)
	ids := make([]int, 0, len(words))
	for _, w := range words {
		id, ok := v.index[w]
		if !ok {
			id = v.unkID
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// EncodePair encodes a primary and secondary input as one sequence. A
// configured separator token is placed between the two parts.
func (v *Vocab) EncodePair(text, pair string) ([]int, error) {
	ids, err := v.Encode(text)
	if err != nil {
		return nil, err
	}
	if pair == "" {
		return ids, nil
	}
	if v.sepID >= 0 {
		ids = append(ids, v.sepID)
	}
	pairIDs, err := v.Encode(pair)
	if err != nil {
		return nil, err
	}
	return append(ids, pairIDs...), nil
}

// Decode joins token strings with single spaces.
func (v *Vocab) Decode(ids []int) (string, error) {
	var sb strings.Builder
	for i, id := range ids {
		if id < 0 || id >= len(v.tokens) {
			return "", fmt.Errorf("token id %d out of range [0,%d)", id, len(v.tokens))
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(v.tokens[id])
	}
	return sb.String(), nil
}
