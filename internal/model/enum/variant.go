package enum

// Variant spot, perpetual open, perpetual close
type Variant uint8

const (
	_variant_beg Variant = iota
	VariantSpot
	VariantPerpetualOpen
	VariantPerpetualClose
	_variant_end
)

func (v Variant) IsAvailable() bool {
	return v > _variant_beg && v < _variant_end
}

// IsPerpetual reports whether the variant settles against a derivative position.
func (v Variant) IsPerpetual() bool {
	return v == VariantPerpetualOpen || v == VariantPerpetualClose
}

func (v Variant) String() string {
	switch v {
	case VariantSpot:
		return "spot"
	case VariantPerpetualOpen:
		return "perpetual_open"
	case VariantPerpetualClose:
		return "perpetual_close"
	default:
		return "unknown"
	}
}
