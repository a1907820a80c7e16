package tokenizer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testVocab(t *testing.T) *Vocab {
	t.Helper()
	v, err := NewVocab([]string{"<unk>", "the", "cat", "sat", "mat", "on"}, 0)
	if err != nil {
		t.Fatalf("NewVocab: %v", err)
	}
	return v
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	v := testVocab(t)
	ids, err := v.Encode("the cat sat")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !reflect.DeepEqual(ids, []int{1, 2, 3}) {
		t.Fatalf("unexpected ids %v", ids)
	}
	text, err := v.Decode(ids)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if text != "the cat sat" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestEncodeUnknownWordsMapToUnk(t *testing.T) {
	v := testVocab(t)
	ids, err := v.Encode("the dog")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !reflect.DeepEqual(ids, []int{1, 0}) {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestEncodeEmptyText(t *testing.T) {
	v := testVocab(t)
	ids, err := v.Encode("")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty sequence, got %v", ids)
	}
}

func TestDecodeRejectsOutOfRange(t *testing.T) {
	v := testVocab(t)
	if _, err := v.Decode([]int{99}); err == nil {
		t.Fatalf("expected error for out-of-range id")
	}
}

func TestLoadVocabWithPairEncoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.json")
	payload := `{"tokens":["<unk>","<sep>","a","b"],"unk_token_id":0,"sep_token_id":1}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	v, err := LoadVocab(path)
	if err != nil {
		t.Fatalf("LoadVocab: %v", err)
	}
	ids, err := v.EncodePair("a", "b")
	if err != nil {
		t.Fatalf("EncodePair: %v", err)
	}
	if !reflect.DeepEqual(ids, []int{2, 1, 3}) {
		t.Fatalf("unexpected pair encoding %v", ids)
	}
}

func TestNewVocabRejectsDuplicates(t *testing.T) {
	if _, err := NewVocab([]string{"a", "a"}, 0); err == nil {
		t.Fatalf("expected duplicate token error")
	}
}
