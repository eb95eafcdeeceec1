package format

type (
	FormType        uint8
	RateRule        uint8
	CompressionType uint8
	TableFormat     uint8
)

const (
	FormLinear           FormType = 0x1 // FormLinear represents linear interpolation between two values.
	FormExponentialDecay FormType = 0x2 // FormExponentialDecay represents P0 * e^(-k*t).
	FormLogistic         FormType = 0x3 // FormLogistic represents a logistic curve with a rate derived from the end anchor.
	FormLogisticFixed    FormType = 0x4 // FormLogisticFixed represents a logistic curve with a constant rate.

	RateAnchored RateRule = 0x1 // RateAnchored derives r so the logistic curve hits its end anchor.
	RateLegacy   RateRule = 0x2 // RateLegacy derives r as ln(K/target - 1) / -duration.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	TableCSV  TableFormat = 0x1 // TableCSV represents a comma-separated table, optionally compressed.
	TableXLSX TableFormat = 0x2 // TableXLSX represents an Excel workbook with a single sheet.
)

var formNames = map[FormType]string{
	FormLinear:           "linear",
	FormExponentialDecay: "exponential-decay",
	FormLogistic:         "logistic",
	FormLogisticFixed:    "logistic-fixed-rate",
}

func (f FormType) String() string {
	if name, ok := formNames[f]; ok {
		return name
	}

	return "unknown"
}

// ParseFormType returns the FormType for a configuration name.
// The second return value is false for unknown names.
func ParseFormType(name string) (FormType, bool) {
	for f, n := range formNames {
		if n == name {
			return f, true
		}
	}

	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (f FormType) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (r RateRule) String() string {
	switch r {
	case RateAnchored:
		return "anchored"
	case RateLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// ParseRateRule returns the RateRule for a configuration name.
// An empty name selects RateAnchored.
func ParseRateRule(name string) (RateRule, bool) {
	switch name {
	case "", "anchored":
		return RateAnchored, true
	case "legacy":
		return RateLegacy, true
	default:
		return 0, false
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (t TableFormat) String() string {
	switch t {
	case TableCSV:
		return "CSV"
	case TableXLSX:
		return "XLSX"
	default:
		return "Unknown"
	}
}
