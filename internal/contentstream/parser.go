package contentstream

import (
	"fmt"
	"io"

	"github.com/inkfold/redactpdf/internal/scan"
)

// Parse tokenizes data and groups the resulting tokens into an ordered
// Operation list: each keyword token that is not itself an operand
// container ("<<", "[") closes an operator, consuming every operand
// pushed onto the stack since the previous operator.
func Parse(data []byte, cfg scan.Config) ([]Operation, error) {
	tok := scan.New(data, cfg)
	var ops []Operation
	var stack []Operand
	opStart := int64(0)
	haveOpStart := false

	for {
		t, err := tok.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ops, err
		}
		if !haveOpStart {
			opStart = t.Pos
			haveOpStart = true
		}

		switch t.Type {
		case scan.TokenNumber:
			v := t.Float
			if t.IsInt {
				v = float64(t.Int)
			}
			stack = append(stack, NumberOperand(v))
		case scan.TokenName:
			stack = append(stack, NameOperand(t.Str))
		case scan.TokenString:
			stack = append(stack, StringOperand(t.Bytes, t.IsHex))
		case scan.TokenBoolean:
			stack = append(stack, BoolOperand(t.Bool))
		case scan.TokenNull:
			stack = append(stack, NullOperand())
		case scan.TokenArrayStart:
			arr, err := parseArray(tok)
			if err != nil {
				return ops, err
			}
			stack = append(stack, ArrayOperand(arr))
		case scan.TokenDict:
			dict, err := parseDict(tok)
			if err != nil {
				return ops, err
			}
			stack = append(stack, DictOperand(dict))
		case scan.TokenKeyword:
			if t.Str == "BI" {
				op, err := parseInlineImage(tok, opStart)
				if err != nil {
					return ops, err
				}
				ops = append(ops, op)
				stack = stack[:0]
				haveOpStart = false
				continue
			}
			ops = append(ops, Operation{
				Operator: t.Str,
				Kind:     KindOf(t.Str),
				Operands: append([]Operand(nil), stack...),
				Pos:      opStart,
				End:      t.End,
			})
			stack = stack[:0]
			haveOpStart = false
		default:
			return ops, fmt.Errorf("contentstream: unexpected token %v at %d", t.Type, t.Pos)
		}
	}
	return ops, nil
}

func parseArray(tok *scan.Tokenizer) ([]Operand, error) {
	var out []Operand
	for {
		t, err := tok.Next()
		if err != nil {
			return nil, fmt.Errorf("contentstream: unterminated array: %w", err)
		}
		switch t.Type {
		case scan.TokenArrayEnd:
			return out, nil
		case scan.TokenNumber:
			v := t.Float
			if t.IsInt {
				v = float64(t.Int)
			}
			out = append(out, NumberOperand(v))
		case scan.TokenName:
			out = append(out, NameOperand(t.Str))
		case scan.TokenString:
			out = append(out, StringOperand(t.Bytes, t.IsHex))
		case scan.TokenBoolean:
			out = append(out, BoolOperand(t.Bool))
		case scan.TokenNull:
			out = append(out, NullOperand())
		case scan.TokenArrayStart:
			inner, err := parseArray(tok)
			if err != nil {
				return nil, err
			}
			out = append(out, ArrayOperand(inner))
		case scan.TokenDict:
			dict, err := parseDict(tok)
			if err != nil {
				return nil, err
			}
			out = append(out, DictOperand(dict))
		default:
			return nil, fmt.Errorf("contentstream: unexpected token %v in array", t.Type)
		}
	}
}

func parseDict(tok *scan.Tokenizer) (map[string]Operand, error) {
	out := make(map[string]Operand)
	for {
		keyTok, err := tok.Next()
		if err != nil {
			return nil, fmt.Errorf("contentstream: unterminated dict: %w", err)
		}
		if keyTok.Type == scan.TokenDictEnd {
			return out, nil
		}
		if keyTok.Type != scan.TokenName {
			return nil, fmt.Errorf("contentstream: expected dict key, got %v", keyTok.Type)
		}
		valTok, err := tok.Next()
		if err != nil {
			return nil, fmt.Errorf("contentstream: dict missing value: %w", err)
		}
		var val Operand
		switch valTok.Type {
		case scan.TokenNumber:
			v := valTok.Float
			if valTok.IsInt {
				v = float64(valTok.Int)
			}
			val = NumberOperand(v)
		case scan.TokenName:
			val = NameOperand(valTok.Str)
		case scan.TokenString:
			val = StringOperand(valTok.Bytes, valTok.IsHex)
		case scan.TokenBoolean:
			val = BoolOperand(valTok.Bool)
		case scan.TokenNull:
			val = NullOperand()
		case scan.TokenArrayStart:
			arr, err := parseArray(tok)
			if err != nil {
				return nil, err
			}
			val = ArrayOperand(arr)
		case scan.TokenDict:
			inner, err := parseDict(tok)
			if err != nil {
				return nil, err
			}
			val = DictOperand(inner)
		default:
			return nil, fmt.Errorf("contentstream: unexpected dict value token %v", valTok.Type)
		}
		out[keyTok.Str] = val
	}
}

// parseInlineImage reads the "/Key value ..." pairs following BI until the
// tokenizer's ID handling takes over (the tokenizer itself returns the
// image payload as a single TokenInlineImage token), then consumes the
// trailing EI keyword.
func parseInlineImage(tok *scan.Tokenizer, start int64) (Operation, error) {
	dict := make(map[string]Operand)
	var lastKey string
	haveKey := false

	for {
		t, err := tok.Next()
		if err != nil {
			return Operation{}, fmt.Errorf("contentstream: unterminated inline image dict: %w", err)
		}
		switch t.Type {
		case scan.TokenName:
			if !haveKey {
				lastKey = t.Str
				haveKey = true
			} else {
				dict[lastKey] = NameOperand(t.Str)
				haveKey = false
			}
		case scan.TokenNumber:
			v := t.Float
			if t.IsInt {
				v = float64(t.Int)
			}
			if haveKey {
				dict[lastKey] = NumberOperand(v)
				haveKey = false
			}
		case scan.TokenBoolean:
			if haveKey {
				dict[lastKey] = BoolOperand(t.Bool)
				haveKey = false
			}
		case scan.TokenArrayStart:
			arr, err := parseArray(tok)
			if err != nil {
				return Operation{}, err
			}
			if haveKey {
				dict[lastKey] = ArrayOperand(arr)
				haveKey = false
			}
		case scan.TokenInlineImage:
			end, err := tok.Next()
			if err != nil || end.Str != "EI" {
				return Operation{}, fmt.Errorf("contentstream: inline image missing EI terminator")
			}
			return Operation{
				Operator:  "BI",
				Kind:      OpInlineImage,
				Pos:       start,
				End:       end.End,
				ImageDict: dict,
				ImageData: t.Bytes,
			}, nil
		default:
			return Operation{}, fmt.Errorf("contentstream: unexpected token %v in inline image dict", t.Type)
		}
	}
}
