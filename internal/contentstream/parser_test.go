package contentstream_test

import (
	"testing"

	"github.com/inkfold/redactpdf/internal/contentstream"
	"github.com/inkfold/redactpdf/internal/scan"
)

func TestParseBasicTextOps(t *testing.T) {
	ops, err := contentstream.Parse([]byte(`BT /F1 12 Tf (Hello) Tj ET`), scan.Config{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	wantOperators := []string{"BT", "Tf", "Tj", "ET"}
	if len(ops) != len(wantOperators) {
		t.Fatalf("got %d ops, want %d: %+v", len(ops), len(wantOperators), ops)
	}
	for i, want := range wantOperators {
		if ops[i].Operator != want {
			t.Errorf("op %d = %q, want %q", i, ops[i].Operator, want)
		}
	}
	if ops[1].Operands[0].Name != "F1" || ops[1].Operands[1].Number != 12 {
		t.Errorf("Tf operands = %+v, want F1 12", ops[1].Operands)
	}
}

func TestParseTJArray(t *testing.T) {
	ops, err := contentstream.Parse([]byte(`[(A)-250(B)]TJ`), scan.Config{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ops) != 1 || ops[0].Operator != "TJ" {
		t.Fatalf("expected single TJ op, got %+v", ops)
	}
	arr := ops[0].Operands[0].Array
	if len(arr) != 3 {
		t.Fatalf("expected 3 array elements, got %d", len(arr))
	}
	if string(arr[0].Str) != "A" || arr[1].Number != -250 || string(arr[2].Str) != "B" {
		t.Errorf("unexpected TJ array contents: %+v", arr)
	}
}

func TestParseHexStringOperandPreservesIsHex(t *testing.T) {
	ops, err := contentstream.Parse([]byte(`<48656C6C6F> Tj (Hello) Tj`), scan.Config{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 Tj ops, got %+v", ops)
	}
	if !ops[0].Operands[0].IsHex {
		t.Errorf("expected the hex show-string operand to carry IsHex=true, got %+v", ops[0].Operands[0])
	}
	if ops[1].Operands[0].IsHex {
		t.Errorf("expected the literal show-string operand to carry IsHex=false, got %+v", ops[1].Operands[0])
	}
	if string(ops[0].Operands[0].Str) != string(ops[1].Operands[0].Str) {
		t.Errorf("expected both operands to decode to the same bytes, got %q vs %q", ops[0].Operands[0].Str, ops[1].Operands[0].Str)
	}
}

func TestParseMarkedContentDict(t *testing.T) {
	ops, err := contentstream.Parse([]byte(`/P <</MCID 1>> BDC EMC`), scan.Config{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ops) != 2 || ops[0].Operator != "BDC" {
		t.Fatalf("expected BDC then EMC, got %+v", ops)
	}
	dict := ops[0].Operands[1].Dict
	if dict["MCID"].Number != 1 {
		t.Errorf("expected MCID 1, got %+v", dict)
	}
}

func TestWalkerTracksMatrices(t *testing.T) {
	ops, err := contentstream.Parse([]byte(`q 2 0 0 2 0 0 cm BT 1 0 0 1 10 20 Tm /F1 12 Tf (x) Tj ET Q`), scan.Config{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	w := contentstream.NewWalker()
	for _, op := range ops {
		if err := w.Step(op); err != nil {
			t.Fatalf("Step(%s): %v", op.Operator, err)
		}
	}
	if w.GS.CTM != contentstream.NewGraphicsState().CTM {
		t.Errorf("CTM after matching Q = %+v, want identity", w.GS.CTM)
	}
}

func TestWalkerRejectsUnbalancedRestore(t *testing.T) {
	ops, err := contentstream.Parse([]byte(`Q`), scan.Config{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	w := contentstream.NewWalker()
	if err := w.Step(ops[0]); err == nil {
		t.Fatal("expected error restoring empty graphics state stack")
	}
}
