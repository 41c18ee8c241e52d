package parsing

// Canonical unit abbreviations used across draft items and orders.
const (
	UnitKilogram = "kg"
	UnitGram     = "g"
	UnitLiter    = "l"
	UnitMillilit = "ml"
	UnitPiece    = "pc"
	UnitPack     = "pack"
	UnitBox      = "box"
	UnitBunch    = "bunch"
)

// unitVariants folds spelling and declension variants down to the canonical
// abbreviation. Keys are already normalized (lowercased, trimmed).
var unitVariants = map[string]string{
	"kg":        UnitKilogram,
	"kg.":       UnitKilogram,
	"kilo":      UnitKilogram,
	"kilos":     UnitKilogram,
	"kilogram":  UnitKilogram,
	"kilograms": UnitKilogram,
	"кг":        UnitKilogram,
	"кг.":       UnitKilogram,
	"килограмм": UnitKilogram,

	"g":     UnitGram,
	"g.":    UnitGram,
	"gram":  UnitGram,
	"grams": UnitGram,
	"г":     UnitGram,
	"гр":    UnitGram,
	"грамм": UnitGram,

	"l":      UnitLiter,
	"l.":     UnitLiter,
	"liter":  UnitLiter,
	"liters": UnitLiter,
	"litre":  UnitLiter,
	"litres": UnitLiter,
	"л":      UnitLiter,
	"литр":   UnitLiter,
	"литра":  UnitLiter,

	"ml":         UnitMillilit,
	"ml.":        UnitMillilit,
	"milliliter": UnitMillilit,
	"мл":         UnitMillilit,

	"pc":     UnitPiece,
	"pc.":    UnitPiece,
	"pcs":    UnitPiece,
	"piece":  UnitPiece,
	"pieces": UnitPiece,
	"шт":     UnitPiece,
	"шт.":    UnitPiece,
	"штук":   UnitPiece,
	"штука":  UnitPiece,
	"штуки":  UnitPiece,

	"pack":     UnitPack,
	"packs":    UnitPack,
	"package":  UnitPack,
	"уп":       UnitPack,
	"уп.":      UnitPack,
	"упаковка": UnitPack,
	"упаковки": UnitPack,
	"пачка":    UnitPack,
	"пачки":    UnitPack,

	"box":     UnitBox,
	"boxes":   UnitBox,
	"кор":     UnitBox,
	"кор.":    UnitBox,
	"коробка": UnitBox,
	"коробки": UnitBox,

	"bunch":   UnitBunch,
	"bunches": UnitBunch,
	"пуч":     UnitBunch,
	"пучок":   UnitBunch,
	"пучка":   UnitBunch,
}

// CanonicalUnit folds a token to its canonical unit abbreviation.
func CanonicalUnit(token string) (string, bool) {
	unit, ok := unitVariants[token]
	return unit, ok
}

// DefaultClarificationUnits is offered when nothing is known about a name.
func DefaultClarificationUnits() []string {
	return []string{UnitKilogram, UnitPiece}
}

// allowedUnitsByName is the static fallback table consulted when a parsed
// line has no unit and the name has not been matched to a catalog product
// yet. Keys are normalized product names.
var allowedUnitsByName = map[string][]string{
	"tomatoes":        {UnitKilogram},
	"cherry tomatoes": {UnitKilogram},
	"cucumbers":       {UnitKilogram},
	"potatoes":        {UnitKilogram},
	"onion":           {UnitKilogram},
	"onions":          {UnitKilogram},
	"carrots":         {UnitKilogram},
	"beets":           {UnitKilogram},
	"cabbage":         {UnitKilogram, UnitPiece},
	"garlic":          {UnitKilogram, UnitPiece},
	"lemons":          {UnitKilogram, UnitPiece},
	"apples":          {UnitKilogram},
	"bananas":         {UnitKilogram},
	"milk":            {UnitLiter, UnitPack},
	"cream":           {UnitLiter, UnitMillilit},
	"sunflower oil":   {UnitLiter},
	"olive oil":       {UnitLiter, UnitMillilit},
	"eggs":            {UnitPiece, UnitPack},
	"butter":          {UnitKilogram, UnitPack},
	"flour":           {UnitKilogram},
	"sugar":           {UnitKilogram},
	"salt":            {UnitKilogram, UnitPack},
	"rice":            {UnitKilogram},
	"chicken fillet":  {UnitKilogram},
	"beef":            {UnitKilogram},
	"pork":            {UnitKilogram},
	"salmon":          {UnitKilogram},
	"dill":            {UnitBunch},
	"parsley":         {UnitBunch},
	"cilantro":        {UnitBunch},
	"basil":           {UnitBunch, UnitGram},
	"mint":            {UnitBunch},
	"bread":           {UnitPiece},
	"napkins":         {UnitPack, UnitBox},
	"gloves":          {UnitPack, UnitBox},
}

// AllowedUnits reports the valid units for a normalized name, if known.
func AllowedUnits(normalizedName string) ([]string, bool) {
	units, ok := allowedUnitsByName[normalizedName]
	if !ok {
		return nil, false
	}
	return append([]string(nil), units...), true
}
