package enum

// ── Group A: Persisted values (appear in stored and exported JSON) ──

const (
	UnitKindUnit   = "UNIT"
	UnitKindWeight = "WEIGHT"
)

// ── Group B: Display classification (never persisted) ──

const (
	StockBandHigh   = "HIGH"
	StockBandMedium = "MEDIUM"
	StockBandLow    = "LOW"
)

const (
	SeveritySuccess = "success"
	SeverityError   = "error"
)

// ── Group C: Destructive actions gated by confirmation ──

const (
	ActionDeleteProduct = "DELETE_PRODUCT"
	ActionImport        = "IMPORT"
	ActionReset         = "RESET"
)
