package recovery_test

import (
	"io"
	"testing"

	"github.com/inkfold/redactpdf/internal/scan"
	"github.com/inkfold/redactpdf/recovery"
)

// brokenStream has an unterminated literal string inside a Tj operand.
const brokenStream = `BT /F1 12 Tf (unterminated Tj ET`

func drain(t *testing.T, src string, cfg scan.Config) ([]scan.Token, error) {
	t.Helper()
	tok := scan.New([]byte(src), cfg)
	var out []scan.Token
	for {
		tk, err := tok.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, tk)
	}
}

func TestStrictStrategyFailsOnMalformedStream(t *testing.T) {
	_, err := drain(t, brokenStream, scan.Config{Recovery: recovery.NewStrictStrategy()})
	if err == nil {
		t.Fatal("expected error with StrictStrategy")
	}
}

func TestLenientStrategyRecordsAndSkips(t *testing.T) {
	rec := recovery.NewLenientStrategy()
	toks, err := drain(t, brokenStream, scan.Config{Recovery: rec})
	if err != nil {
		t.Fatalf("expected LenientStrategy to recover, got error: %v", err)
	}
	if len(rec.Errors) == 0 {
		t.Fatal("expected LenientStrategy to record at least one error")
	}
	if len(toks) == 0 {
		t.Fatal("expected tokens preceding the malformed string to be returned")
	}
}
