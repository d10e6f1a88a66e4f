package model

// IndicatorBundle holds the computed indicators for one coin.
// A nil field means the underlying series was shorter than the indicator window.
type IndicatorBundle struct {
	EMA21w  *float64
	SMA300d *float64
	SMA400d *float64
	Price   float64 // latest daily close

	// RSI values are rounded to two decimals; the classifier sees the rounded weekly value.
	SpotMacroRSI  *float64 // weekly
	SwingMacroRSI *float64 // daily
	MicroRSI      *float64 // 4h
}

// RSIWindow names one RSI column and the candle series it is computed on.
type RSIWindow struct {
	Label     string
	Timeframe Timeframe
}

// Column is the table heading used for this window, e.g. "Spot Macro RSI (1w)".
func (w RSIWindow) Column() string {
	return w.Label + " RSI (" + string(w.Timeframe) + ")"
}

var (
	SpotMacro  = RSIWindow{Label: "Spot Macro", Timeframe: OneWeek}
	SwingMacro = RSIWindow{Label: "Swing Macro", Timeframe: OneDay}
	Micro      = RSIWindow{Label: "Micro", Timeframe: FourHour}
)

// RSIWindows lists the reported RSI columns in display order.
var RSIWindows = []RSIWindow{SpotMacro, SwingMacro, Micro}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
