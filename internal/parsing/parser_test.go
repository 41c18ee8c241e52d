package parsing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/supplybot/supplybot-backend/pkg/errors"
)

func mustParse(t *testing.T, raw string) *ParsedLine {
	t.Helper()
	line, err := ParseLine(raw)
	require.NoError(t, err)
	require.NotNil(t, line)
	return line
}

func TestParseDashedGrammar(t *testing.T) {
	line := mustParse(t, "Tomatoes - 5 - kg")
	require.Equal(t, "tomatoes", line.Name)
	require.True(t, decimal.NewFromInt(5).Equal(line.Quantity))
	require.Equal(t, UnitKilogram, line.Unit)
	require.False(t, line.NeedsUnit)
}

func TestParseDashedGrammarEmDash(t *testing.T) {
	line := mustParse(t, "Tomatoes — 5 — kg")
	require.Equal(t, "tomatoes", line.Name)
	require.Equal(t, UnitKilogram, line.Unit)
}

func TestParseDashedGrammarHyphenatedName(t *testing.T) {
	line := mustParse(t, "cherry-tomatoes - 5 - kg")
	require.Equal(t, "cherry-tomatoes", line.Name)
	require.True(t, decimal.NewFromInt(5).Equal(line.Quantity))
	require.Equal(t, UnitKilogram, line.Unit)
}

func TestParseDashedGrammarUnspaced(t *testing.T) {
	line := mustParse(t, "Tomatoes-5-kg")
	require.Equal(t, "tomatoes", line.Name)
	require.True(t, decimal.NewFromInt(5).Equal(line.Quantity))
	require.Equal(t, UnitKilogram, line.Unit)
}

func TestParseNameQtyUnit(t *testing.T) {
	line := mustParse(t, "Chicken fillet 2.5 kg")
	require.Equal(t, "chicken fillet", line.Name)
	require.True(t, decimal.RequireFromString("2.5").Equal(line.Quantity))
	require.Equal(t, UnitKilogram, line.Unit)
}

func TestParseQtyUnitName(t *testing.T) {
	line := mustParse(t, "3 l milk")
	require.Equal(t, "milk", line.Name)
	require.True(t, decimal.NewFromInt(3).Equal(line.Quantity))
	require.Equal(t, UnitLiter, line.Unit)
}

func TestParseDecimalComma(t *testing.T) {
	line := mustParse(t, "Flour 1,5 kg")
	require.Equal(t, "flour", line.Name)
	require.True(t, decimal.RequireFromString("1.5").Equal(line.Quantity))
}

func TestParseUnitVariantsFold(t *testing.T) {
	for raw, want := range map[string]string{
		"Milk 2 liters":  UnitLiter,
		"Milk 2 литра":   UnitLiter,
		"Eggs 30 pcs":    UnitPiece,
		"Eggs 30 шт":     UnitPiece,
		"Flour 2 kilos":  UnitKilogram,
		"Dill 3 bunches": UnitBunch,
	} {
		line := mustParse(t, raw)
		require.Equalf(t, want, line.Unit, "line %q", raw)
	}
}

func TestParseSingleAllowedUnitAdoptedSilently(t *testing.T) {
	line := mustParse(t, "Onion 3")
	require.Equal(t, "onion", line.Name)
	require.True(t, decimal.NewFromInt(3).Equal(line.Quantity))
	require.Equal(t, UnitKilogram, line.Unit)
	require.True(t, line.UnitImplied)
	require.False(t, line.NeedsUnit)
}

func TestParseExplicitUnitNotImplied(t *testing.T) {
	line := mustParse(t, "Onion 3 kg")
	require.Equal(t, UnitKilogram, line.Unit)
	require.False(t, line.UnitImplied)
}

func TestParseMultipleAllowedUnitsNeedClarification(t *testing.T) {
	line := mustParse(t, "Milk 2")
	require.Equal(t, "milk", line.Name)
	require.True(t, line.NeedsUnit)
	require.Equal(t, []string{UnitLiter, UnitPack}, line.CandidateUnits)
	require.Empty(t, line.Unit)
}

func TestParseUnknownNameDefaultsCandidates(t *testing.T) {
	line := mustParse(t, "Dragonfruit 2")
	require.True(t, line.NeedsUnit)
	require.Equal(t, DefaultClarificationUnits(), line.CandidateUnits)
}

func TestParseBareNameImplicitQuantity(t *testing.T) {
	line := mustParse(t, "Tomatoes")
	require.Equal(t, "tomatoes", line.Name)
	require.True(t, decimal.NewFromInt(1).Equal(line.Quantity))
	require.True(t, line.NeedsUnit, "bare names always clarify the unit")
	require.Equal(t, []string{UnitKilogram}, line.CandidateUnits)
}

func TestParseNumericInMiddle(t *testing.T) {
	line := mustParse(t, "Cherry tomatoes 2 kg premium")
	require.Equal(t, "cherry tomatoes", line.Name)
	require.Equal(t, UnitKilogram, line.Unit)
}

func TestParseKeepsOriginalText(t *testing.T) {
	line := mustParse(t, "  Tomatoes - 5 - kg  ")
	require.Equal(t, "Tomatoes - 5 - kg", line.Original)
}

func TestParseEmptyLine(t *testing.T) {
	_, err := ParseLine("   ")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestParseNoName(t *testing.T) {
	_, err := ParseLine("2 kg")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestParseRejectsNonPositiveQuantity(t *testing.T) {
	// zero is not a quantity; the line falls back to a bare name
	line := mustParse(t, "Tomatoes 0 kg")
	require.True(t, decimal.NewFromInt(1).Equal(line.Quantity))
	require.True(t, line.NeedsUnit)
}
