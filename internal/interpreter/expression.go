package interpreter

import (
	"strings"

	"github.com/specialistvlad/ftdgo/internal/diag"
)

// BooleanType tags the variant of a Boolean expression.
type BooleanType int

const (
	BooleanEqual BooleanType = iota + 1
	BooleanNotEqual
	BooleanIsNull
	BooleanIsNotNull
	BooleanListIsEmpty
	BooleanListIsNotEmpty
	BooleanLiteral
)

var booleanTypeNames = map[BooleanType]string{
	BooleanEqual:          "equal",
	BooleanNotEqual:       "not-equal",
	BooleanIsNull:         "is-null",
	BooleanIsNotNull:      "is-not-null",
	BooleanListIsEmpty:    "list-is-empty",
	BooleanListIsNotEmpty: "list-is-not-empty",
	BooleanLiteral:        "literal",
}

func (t BooleanType) String() string {
	if name, ok := booleanTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t BooleanType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Boolean is a compiled condition.
type Boolean struct {
	Type    BooleanType    `json:"type"`
	Left    *PropertyValue `json:"left,omitempty"`
	Right   *PropertyValue `json:"right,omitempty"`
	Literal bool           `json:"literal,omitempty"`
	Line    int            `json:"line"`
}

// ParseCondition compiles one of the condition shapes:
//
//	$a            $a == v    $a is null     $a is empty    true
//	not $a        $a != v    $a is not null $a is not empty false
func (d *TDoc) ParseCondition(expr string, bindings Bindings, line int) (Boolean, error) {
	expr = strings.TrimSpace(expr)
	switch expr {
	case "true", "false":
		return Boolean{Type: BooleanLiteral, Literal: expr == "true", Line: line}, nil
	}

	for _, op := range []struct {
		token string
		kind  BooleanType
	}{{"==", BooleanEqual}, {"!=", BooleanNotEqual}} {
		left, right, ok := strings.Cut(expr, op.token)
		if !ok {
			continue
		}
		leftValue, err := d.conditionOperand(strings.TrimSpace(left), bindings, expr, line)
		if err != nil {
			return Boolean{}, err
		}
		rightValue, err := d.PropertyValueFromString(strings.TrimSpace(right), leftValue.Kind.Strip(), bindings, SourceHeader, line)
		if err != nil {
			return Boolean{}, err
		}
		return Boolean{Type: op.kind, Left: &leftValue, Right: &rightValue, Line: line}, nil
	}

	for _, suffix := range []struct {
		token string
		kind  BooleanType
	}{
		{" is not null", BooleanIsNotNull},
		{" is null", BooleanIsNull},
		{" is not empty", BooleanListIsNotEmpty},
		{" is empty", BooleanListIsEmpty},
	} {
		if operand, ok := strings.CutSuffix(expr, suffix.token); ok {
			value, err := d.conditionOperand(strings.TrimSpace(operand), bindings, expr, line)
			if err != nil {
				return Boolean{}, err
			}
			if (suffix.kind == BooleanIsNull || suffix.kind == BooleanIsNotNull) && !value.Kind.IsOptional() {
				return Boolean{}, diag.Errorf(diag.TypeError, d.Name, line, "`%s` is not optional and can never be null", operand)
			}
			return Boolean{Type: suffix.kind, Left: &value, Line: line}, nil
		}
	}

	negate := false
	operand := expr
	if rest, ok := strings.CutPrefix(expr, "not "); ok {
		negate = true
		operand = strings.TrimSpace(rest)
	}
	value, err := d.conditionOperand(operand, bindings, expr, line)
	if err != nil {
		return Boolean{}, err
	}
	if !value.Kind.IsBoolean() {
		return Boolean{}, diag.Errorf(diag.TypeError, d.Name, line, "condition `%s` needs a boolean, found `%s`", expr, value.Kind)
	}
	right := Literal(BooleanValue(!negate))
	return Boolean{Type: BooleanEqual, Left: &value, Right: &right, Line: line}, nil
}

func (d *TDoc) conditionOperand(text string, bindings Bindings, expr string, line int) (PropertyValue, error) {
	if !strings.HasPrefix(text, "$") {
		return PropertyValue{}, diag.Errorf(diag.EvaluationError, d.Name, line, "malformed condition `%s`: expected a `$` reference, found `%s`", expr, text)
	}
	return d.PropertyValueFromString(text, Kind{}, bindings, SourceHeader, line)
}

// Operands returns the property values the condition reads.
func (b Boolean) Operands() []PropertyValue {
	var operands []PropertyValue
	if b.Left != nil {
		operands = append(operands, *b.Left)
	}
	if b.Right != nil {
		operands = append(operands, *b.Right)
	}
	return operands
}

// Map returns a copy of b with fn applied to every operand.
func (b Boolean) Map(fn func(PropertyValue) (PropertyValue, error)) (Boolean, error) {
	if b.Left != nil {
		left, err := fn(*b.Left)
		if err != nil {
			return Boolean{}, err
		}
		b.Left = &left
	}
	if b.Right != nil {
		right, err := fn(*b.Right)
		if err != nil {
			return Boolean{}, err
		}
		b.Right = &right
	}
	return b, nil
}

// Eval evaluates the condition against the bag and scope.
func (b Boolean) Eval(d *TDoc, scope Scope) (bool, error) {
	if b.Type == BooleanLiteral {
		return b.Literal, nil
	}
	if b.Left == nil {
		return false, diag.Errorf(diag.EvaluationError, d.Name, b.Line, "malformed condition: %s without an operand", b.Type)
	}
	left, err := b.Left.Resolve(d, scope, b.Line)
	if err != nil {
		return false, err
	}

	switch b.Type {
	case BooleanIsNull:
		return left.IsNull(), nil
	case BooleanIsNotNull:
		return !left.IsNull(), nil
	case BooleanListIsEmpty, BooleanListIsNotEmpty:
		if left.Type != ValueList && left.Type != ValueNone {
			return false, diag.Errorf(diag.TypeError, d.Name, b.Line, "`is empty` needs a list, found %s", left.Type)
		}
		return left.IsEmpty() == (b.Type == BooleanListIsEmpty), nil
	case BooleanEqual, BooleanNotEqual:
		if b.Right == nil {
			return false, diag.Errorf(diag.EvaluationError, d.Name, b.Line, "malformed condition: %s without a right operand", b.Type)
		}
		right, err := b.Right.Resolve(d, scope, b.Line)
		if err != nil {
			return false, err
		}
		if left.IsNull() || right.IsNull() {
			equal := left.IsNull() && right.IsNull()
			return equal == (b.Type == BooleanEqual), nil
		}
		if !left.Kind.Strip().SameAs(right.Kind.Strip()) {
			return false, diag.Errorf(diag.TypeError, d.Name, b.Line, "cannot compare `%s` with `%s`", left.Kind, right.Kind)
		}
		return left.Equal(right) == (b.Type == BooleanEqual), nil
	}
	return false, diag.Errorf(diag.EvaluationError, d.Name, b.Line, "unknown condition type %d", b.Type)
}
