package scan_test

import (
	"io"
	"testing"

	"github.com/inkfold/redactpdf/internal/scan"
)

func collect(t *testing.T, src string, cfg scan.Config) []scan.Token {
	t.Helper()
	tok := scan.New([]byte(src), cfg)
	var out []scan.Token
	for {
		tk, err := tok.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, tk)
	}
	return out
}

func TestTokenizeShowTextOperators(t *testing.T) {
	toks := collect(t, `BT /F1 12 Tf (Hello) Tj ET`, scan.Config{})
	want := []scan.TokenType{
		scan.TokenKeyword, scan.TokenName, scan.TokenNumber, scan.TokenKeyword,
		scan.TokenString, scan.TokenKeyword, scan.TokenKeyword,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: type = %v, want %v", i, toks[i].Type, tt)
		}
	}
	if toks[1].Str != "F1" {
		t.Errorf("name operand = %q, want F1", toks[1].Str)
	}
	if string(toks[4].Bytes) != "Hello" {
		t.Errorf("literal string = %q, want Hello", toks[4].Bytes)
	}
}

func TestTokenizeTJArray(t *testing.T) {
	toks := collect(t, `[(A)-250(B)]TJ`, scan.Config{})
	if toks[0].Type != scan.TokenArrayStart {
		t.Fatalf("expected array start, got %v", toks[0].Type)
	}
	if toks[len(toks)-1].Str != "TJ" {
		t.Errorf("expected trailing TJ operator, got %+v", toks[len(toks)-1])
	}
}

func TestTokenizeHexStringOddNibble(t *testing.T) {
	toks := collect(t, `<48656C6C6F1>Tj`, scan.Config{})
	if toks[0].Type != scan.TokenString {
		t.Fatalf("expected string token, got %v", toks[0].Type)
	}
	if len(toks[0].Bytes) != 6 {
		t.Errorf("expected 6 decoded bytes (odd nibble padded), got %d: %x", len(toks[0].Bytes), toks[0].Bytes)
	}
	if !toks[0].IsHex {
		t.Errorf("expected IsHex=true for a hex string token")
	}
}

func TestTokenizeLiteralStringIsNotHex(t *testing.T) {
	toks := collect(t, `(Hello)Tj`, scan.Config{})
	if toks[0].Type != scan.TokenString {
		t.Fatalf("expected string token, got %v", toks[0].Type)
	}
	if toks[0].IsHex {
		t.Errorf("expected IsHex=false for a literal string token")
	}
}

func TestTokenizeInlineImage(t *testing.T) {
	src := "q BI /W 1 /H 1 /BPC 8 /CS /G ID \x00 EI Q"
	toks := collect(t, src, scan.Config{})
	var sawInline bool
	for _, tk := range toks {
		if tk.Type == scan.TokenInlineImage {
			sawInline = true
			if len(tk.Bytes) != 1 {
				t.Errorf("inline image payload = %d bytes, want 1", len(tk.Bytes))
			}
		}
	}
	if !sawInline {
		t.Fatal("expected an inline image token")
	}
}

func TestTokenizeUnterminatedStringFails(t *testing.T) {
	_, err := scan.New([]byte(`(unterminated`), scan.Config{}).Next()
	if err == nil {
		t.Fatal("expected error for unterminated literal string with no recovery strategy")
	}
}
