package walk

import (
	"ulang/report"
	"ulang/syntax"
)

// solve drains the postfix output into the result.  Unary operators applied to
// literals are folded into the literal.  Unary operators applied to anything
// else and all binary operators are passed through unevaluated.
func (w *Walker) solve() ([]*Item, error) {
	result := make([]*Item, 0, len(w.output))

	for _, it := range w.output {
		if it.Kind == ITEM_UNARY_OP {
			if n := len(result); n > 0 && result[n-1].Kind == ITEM_LITERAL {
				if err := fold(it, result[n-1]); err != nil {
					return nil, err
				}

				continue
			}
		}

		result = append(result, it)
	}

	return result, nil
}

// fold applies the unary operator op to lit in place.
func fold(op, lit *Item) error {
	switch {
	case lit.IsBool():
		if op.Op != syntax.OP_NOT {
			return report.RaiseAt(op.Pos, op.Len, "`%s` cannot be applied to a boolean literal", op.Op)
		}

		if lit.Lit == syntax.LIT_TRUE {
			lit.Lit, lit.Name, lit.Value[0] = syntax.LIT_FALSE, "false", 0
		} else {
			lit.Lit, lit.Name, lit.Value[0] = syntax.LIT_TRUE, "true", 1
		}
	case lit.IsNumber():
		if err := foldNumber(op, lit); err != nil {
			return err
		}
	default:
		return report.RaiseAt(op.Pos, op.Len, "`%s` cannot be applied to `%s`", op.Op, lit.Name)
	}

	lit.extendOver(op)
	return nil
}

// foldNumber applies a unary operator to the raw bytes of a number literal.
func foldNumber(op, lit *Item) error {
	switch op.Op {
	case syntax.OP_COMPL:
		n := lit.NumType.ByteSize()
		for i := 0; i < n; i++ {
			lit.Value[i] = ^lit.Value[i]
		}
	case syntax.OP_NOT:
		zero := true
		for _, b := range lit.Value {
			if b != 0 {
				zero = false
				break
			}
		}

		lit.Value = [16]byte{}
		if zero {
			lit.Value[0] = 1
		}
	case syntax.OP_MINUS:
		n := lit.NumType.ByteSize()

		switch lit.NumType.Class() {
		case syntax.NUM_FLOAT:
			lit.Value[n-1] ^= 0x80
		case syntax.NUM_UNSIGNED:
			return report.RaiseAt(op.Pos, op.Len, "cannot negate an unsigned literal")
		default:
			// Two's complement within the literal's width.
			carry := 1
			for i := 0; i < n; i++ {
				v := int(^lit.Value[i]) + carry
				lit.Value[i] = byte(v)
				carry = v >> 8
			}
		}
	case syntax.OP_PLUS:
	case syntax.OP_STAR:
		return report.RaiseAt(op.Pos, op.Len, "cannot dereference a literal")
	default:
		return report.RaiseAt(op.Pos, op.Len, "`%s` cannot be applied to a literal", op.Op)
	}

	return nil
}

// extendOver extends the source range of a folded literal to cover op.
func (it *Item) extendOver(op *Item) {
	start, end := it.Pos, it.Pos+it.Len
	if op.Pos < start {
		start = op.Pos
	}

	if op.Pos+op.Len > end {
		end = op.Pos + op.Len
	}

	it.Pos, it.Len = start, end-start
}
