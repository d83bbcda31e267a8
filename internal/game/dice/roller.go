package dice

import "fmt"

// Roll evaluates an Expression using the given Source and returns a RollResult.
//
// Precondition: expr must come from Parse (Count >= 1, Sides >= 2); src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count and
//
//	result.Total() == sum(result.Dice) + result.Modifier.
func Roll(expr Expression, src Source) (RollResult, error) {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}

	return RollResult{
		Expression: expr.Raw,
		Dice:       rolled,
		Modifier:   expr.Modifier,
	}, nil
}

// RollExpr parses expr and rolls it using src in a single call.
//
// Precondition: expr must be a valid dice expression string; src must be non-nil.
// Postcondition: Returns a RollResult or a parse/roll error.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src)
}

// MustParse parses expr and panics on error. Useful for package-level constants.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

// RollDie rolls a single die with the given number of sides.
//
// Precondition: sides >= 1; src must be non-nil.
// Postcondition: return value is in [1, sides].
func RollDie(sides int, src Source) int {
	return src.Intn(sides) + 1
}

// RollDice rolls count dice of the given sides and applies a flat modifier.
//
// Precondition: count >= 1, sides >= 1; src must be non-nil.
func RollDice(count, sides, modifier int, src Source) RollResult {
	rolled := make([]int, count)
	for i := range rolled {
		rolled[i] = src.Intn(sides) + 1
	}
	raw := fmt.Sprintf("%dd%d", count, sides)
	if modifier != 0 {
		raw = fmt.Sprintf("%s%+d", raw, modifier)
	}
	return RollResult{
		Expression: raw,
		Dice:       rolled,
		Modifier:   modifier,
	}
}

// EvalExpr evaluates a dice expression string and returns its total.
// Malformed expressions evaluate to 0 rather than erroring; callers that
// need strict validation should Parse up front (content loaders do).
func EvalExpr(expr string, src Source) int {
	e, err := Parse(expr)
	if err != nil {
		return 0
	}
	r, err := Roll(e, src)
	if err != nil {
		return 0
	}
	return r.Total()
}
