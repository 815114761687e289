package enum

import "strings"

type Platform uint8

const (
	_platform_beg Platform = iota
	PlatformBinance
	PlatformBinanceFutures
	PlatformBTCC
	_platform_end
)

func (p Platform) IsAvailable() bool {
	return p > _platform_beg && p < _platform_end
}

// ParsePlatform resolves a config venue name, case-insensitive.
func ParsePlatform(name string) (Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "binance":
		return PlatformBinance, true
	case "binance_futures", "binance-futures":
		return PlatformBinanceFutures, true
	case "btcc":
		return PlatformBTCC, true
	default:
		return _platform_beg, false
	}
}

func (p Platform) String() string {
	switch p {
	case PlatformBinance:
		return "binance"
	case PlatformBinanceFutures:
		return "binance_futures"
	case PlatformBTCC:
		return "btcc"
	default:
		return "unknown"
	}
}
