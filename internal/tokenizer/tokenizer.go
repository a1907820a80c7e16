package tokenizer

// Tokenizer is the minimal contract the scoring core needs: turn text
// into similarity-model token ids and back.
type Tokenizer interface {
	Encode(text string) ([]int, error)
	Decode(ids []int) (string, error)
}

// PairEncoder is implemented by tokenizers that support sentence-pair
// encoding of a primary and secondary input.
type PairEncoder interface {
	EncodePair(text, pair string) ([]int, error)
}
