package parsing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/supplybot/supplybot-backend/internal/matching"
	pkgerrors "github.com/supplybot/supplybot-backend/pkg/errors"
)

// ParsedLine is the decomposition of one free-text order line. When NeedsUnit
// is set, Unit is empty and CandidateUnits lists the options to offer.
type ParsedLine struct {
	Name           string
	Original       string
	Quantity       decimal.Decimal
	Unit           string
	UnitImplied    bool
	NeedsUnit      bool
	CandidateUnits []string
}

var dashSeparators = strings.NewReplacer("–", "-", "—", "-")

// ParseLine decomposes a raw line into name, quantity and unit. It tries
// three positional grammars over the unit vocabulary, then falls back to
// scanning for the first numeric token. A line with no extractable name
// yields a validation error; a line with no quantity becomes a bare name
// with quantity 1 that always needs unit clarification.
func ParseLine(raw string) (*ParsedLine, error) {
	original := strings.TrimSpace(raw)
	normalized := matching.Normalize(dashSeparators.Replace(raw))
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "empty line")
	}

	if line, ok := parseDashed(normalized); ok {
		return finishLine(line, original)
	}
	tokens := strings.Fields(normalized)
	if line, ok := parseNameQtyUnit(tokens); ok {
		return finishLine(line, original)
	}
	if line, ok := parseQtyUnitName(tokens); ok {
		return finishLine(line, original)
	}
	if line, ok := parseFirstNumeric(tokens); ok {
		return finishLine(line, original)
	}
	if hasNumericToken(tokens) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no product name found in line")
	}

	// no numeric token anywhere: bare name, implicit quantity of one
	return finishLine(&ParsedLine{
		Name:      normalized,
		Quantity:  decimal.NewFromInt(1),
		NeedsUnit: true,
	}, original)
}

// parseDashed handles "name - qty - unit" and "name - qty". Spaced dashes
// take precedence so hyphenated product names stay intact; an unspaced
// split only applies when the line carries no spaced separator.
func parseDashed(normalized string) (*ParsedLine, bool) {
	parts := strings.Split(normalized, " - ")
	if len(parts) < 2 {
		parts = strings.Split(normalized, "-")
	}
	if len(parts) < 2 || len(parts) > 3 {
		return nil, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	name := parts[0]
	if name == "" {
		return nil, false
	}
	quantity, ok := parseQuantity(parts[1])
	if !ok {
		return nil, false
	}

	line := &ParsedLine{Name: name, Quantity: quantity}
	if len(parts) == 3 {
		unit, known := CanonicalUnit(parts[2])
		if !known {
			return nil, false
		}
		line.Unit = unit
	}
	return line, true
}

// parseNameQtyUnit handles "name qty unit" and "name qty".
func parseNameQtyUnit(tokens []string) (*ParsedLine, bool) {
	if len(tokens) < 2 {
		return nil, false
	}

	last := tokens[len(tokens)-1]
	if unit, ok := CanonicalUnit(last); ok && len(tokens) >= 3 {
		if quantity, numeric := parseQuantity(tokens[len(tokens)-2]); numeric {
			return &ParsedLine{
				Name:     strings.Join(tokens[:len(tokens)-2], " "),
				Quantity: quantity,
				Unit:     unit,
			}, true
		}
		return nil, false
	}

	if quantity, numeric := parseQuantity(last); numeric {
		return &ParsedLine{
			Name:     strings.Join(tokens[:len(tokens)-1], " "),
			Quantity: quantity,
		}, true
	}
	return nil, false
}

// parseQtyUnitName handles "qty unit name" and "qty name".
func parseQtyUnitName(tokens []string) (*ParsedLine, bool) {
	if len(tokens) < 2 {
		return nil, false
	}
	quantity, numeric := parseQuantity(tokens[0])
	if !numeric {
		return nil, false
	}

	if unit, ok := CanonicalUnit(tokens[1]); ok {
		if len(tokens) < 3 {
			return nil, false
		}
		return &ParsedLine{
			Name:     strings.Join(tokens[2:], " "),
			Quantity: quantity,
			Unit:     unit,
		}, true
	}
	return &ParsedLine{
		Name:     strings.Join(tokens[1:], " "),
		Quantity: quantity,
	}, true
}

// parseFirstNumeric scans for the first numeric token anywhere in the line
// and treats the preceding tokens as the name, checking whether the token
// right after the number is a unit word.
func parseFirstNumeric(tokens []string) (*ParsedLine, bool) {
	for i, token := range tokens {
		quantity, numeric := parseQuantity(token)
		if !numeric {
			continue
		}
		name := strings.Join(tokens[:i], " ")
		rest := tokens[i+1:]

		line := &ParsedLine{Name: name, Quantity: quantity}
		if len(rest) > 0 {
			if unit, ok := CanonicalUnit(rest[0]); ok {
				line.Unit = unit
				rest = rest[1:]
			}
		}
		if name == "" {
			line.Name = strings.Join(rest, " ")
		}
		if line.Name == "" {
			return nil, false
		}
		return line, true
	}
	return nil, false
}

// finishLine applies the unit decision rules once name and quantity are
// settled: a single allowed unit is adopted silently, anything else routes
// to clarification.
func finishLine(line *ParsedLine, original string) (*ParsedLine, error) {
	if line.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no product name found in line")
	}
	line.Original = original

	if line.Unit != "" {
		return line, nil
	}

	units, known := AllowedUnits(line.Name)
	switch {
	case line.NeedsUnit:
		// bare name lines always clarify, even with a single-unit table hit
		line.CandidateUnits = clarificationCandidates(units, known)
	case known && len(units) == 1:
		line.Unit = units[0]
		line.UnitImplied = true
	default:
		line.NeedsUnit = true
		line.CandidateUnits = clarificationCandidates(units, known)
	}
	return line, nil
}

func clarificationCandidates(units []string, known bool) []string {
	if known && len(units) > 0 {
		return units
	}
	return DefaultClarificationUnits()
}

func hasNumericToken(tokens []string) bool {
	for _, token := range tokens {
		if _, numeric := parseQuantity(token); numeric {
			return true
		}
	}
	return false
}

func parseQuantity(token string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(token, ",", ".")
	quantity, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if quantity.Sign() <= 0 {
		return decimal.Decimal{}, false
	}
	return quantity, true
}
