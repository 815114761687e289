package ops

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/budget"
	"main/internal/fees"
	"main/internal/model"
	"main/internal/model/enum"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Venue    string            `json:"venue"`
	Pairs    []string          `json:"pairs"`
	Fees     []VenueFeeConfig  `json:"fees"`
	Balances map[string]string `json:"balances"`
	Prices   map[string]string `json:"prices"`
	Orders   []OrderConfig     `json:"orders"`
	Audit    AuditConfig       `json:"audit"`
}

// VenueFeeConfig describes one venue's fee schedule.
type VenueFeeConfig struct {
	Venue              string          `json:"venue"`
	Maker              string          `json:"maker"`
	Taker              string          `json:"taker"`
	ChargedFromReturns bool            `json:"chargedFromReturns"`
	CollateralToken    string          `json:"collateralToken"`
	FlatFees           []FlatFeeConfig `json:"flatFees"`
}

// FlatFeeConfig describes one absolute-amount fee.
type FlatFeeConfig struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// OrderConfig describes a candidate order to run through the checker.
type OrderConfig struct {
	Pair          string `json:"pair"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	Maker         bool   `json:"maker"`
	Amount        string `json:"amount"`
	Price         string `json:"price"`
	Variant       string `json:"variant"`
	Leverage      string `json:"leverage"`
	PositionClose bool   `json:"positionClose"`
}

// AuditConfig describes the optional Postgres audit target.
type AuditConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslMode"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Venue    enum.Platform
	Pairs    []string
	Fees     *fees.Schedule
	Balances budget.StaticBalances
	Prices   map[string]decimal.Decimal
	Orders   []budget.TradeIntent
	Audit    AuditConfig
}

// Load reads a JSON config file and resolves it.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, errors.Wrap(err, "read config")
	}

	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, errors.Wrap(err, "unmarshal config")
	}

	return Resolve(cfg)
}

// Resolve validates a FileConfig and builds the runtime values.
func Resolve(cfg FileConfig) (Loaded, error) {
	venue, ok := enum.ParsePlatform(cfg.Venue)
	if !ok {
		return Loaded{}, errors.Errorf("unknown venue: %s", cfg.Venue)
	}

	schedule, err := resolveSchedule(cfg.Fees)
	if err != nil {
		return Loaded{}, err
	}

	balances, err := resolveBalances(cfg.Balances)
	if err != nil {
		return Loaded{}, err
	}

	prices, err := resolvePrices(cfg.Prices)
	if err != nil {
		return Loaded{}, err
	}

	orders, err := resolveOrders(cfg.Orders)
	if err != nil {
		return Loaded{}, err
	}

	return Loaded{
		Venue:    venue,
		Pairs:    cfg.Pairs,
		Fees:     schedule,
		Balances: balances,
		Prices:   prices,
		Orders:   orders,
		Audit:    cfg.Audit,
	}, nil
}

func resolvePrices(raw map[string]string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(raw))
	for pair, value := range raw {
		price, err := parseDecimal(value)
		if err != nil {
			return nil, errors.Wrap(err, "parse price").With("pair", pair)
		}
		prices[pair] = price
	}

	return prices, nil
}

func resolveSchedule(entries []VenueFeeConfig) (*fees.Schedule, error) {
	schedule := fees.NewSchedule()
	for _, entry := range entries {
		platform, ok := enum.ParsePlatform(entry.Venue)
		if !ok {
			return nil, errors.Errorf("unknown fee venue: %s", entry.Venue)
		}

		maker, err := parseDecimal(entry.Maker)
		if err != nil {
			return nil, errors.Wrap(err, "parse maker fee").With("venue", entry.Venue)
		}

		taker, err := parseDecimal(entry.Taker)
		if err != nil {
			return nil, errors.Wrap(err, "parse taker fee").With("venue", entry.Venue)
		}

		flat := make([]model.TokenAmount, 0, len(entry.FlatFees))
		for _, fee := range entry.FlatFees {
			amount, err := parseDecimal(fee.Amount)
			if err != nil {
				return nil, errors.Wrap(err, "parse flat fee").With("token", fee.Token)
			}
			flat = append(flat, model.TokenAmount{Token: fee.Token, Amount: amount})
		}

		schedule.Register(platform, &fees.Venue{
			Maker:              maker,
			Taker:              taker,
			ChargedFromReturns: entry.ChargedFromReturns,
			CollateralToken:    entry.CollateralToken,
			Flat:               flat,
		})
	}

	return schedule, nil
}

func resolveBalances(raw map[string]string) (budget.StaticBalances, error) {
	balances := make(budget.StaticBalances, len(raw))
	for token, value := range raw {
		amount, err := parseDecimal(value)
		if err != nil {
			return nil, errors.Wrap(err, "parse balance").With("token", token)
		}
		balances[token] = amount
	}

	return balances, nil
}

func resolveOrders(entries []OrderConfig) ([]budget.TradeIntent, error) {
	intents := make([]budget.TradeIntent, 0, len(entries))
	for _, entry := range entries {
		intent, err := resolveOrder(entry)
		if err != nil {
			return nil, errors.Wrap(err, "resolve order").With("pair", entry.Pair)
		}
		intents = append(intents, intent)
	}

	return intents, nil
}

func resolveOrder(entry OrderConfig) (budget.TradeIntent, error) {
	side, err := parseSide(entry.Side)
	if err != nil {
		return budget.TradeIntent{}, err
	}

	orderType, err := parseOrderType(entry.Type)
	if err != nil {
		return budget.TradeIntent{}, err
	}

	amount, err := parseDecimal(entry.Amount)
	if err != nil {
		return budget.TradeIntent{}, errors.Wrap(err, "parse amount")
	}

	price, err := parseDecimal(entry.Price)
	if err != nil {
		return budget.TradeIntent{}, errors.Wrap(err, "parse price")
	}

	switch strings.ToLower(strings.TrimSpace(entry.Variant)) {
	case "", "spot":
		return budget.NewSpotIntent(entry.Pair, side, orderType, entry.Maker, amount, price), nil
	case "perpetual":
		leverage, err := parseDecimal(entry.Leverage)
		if err != nil {
			return budget.TradeIntent{}, errors.Wrap(err, "parse leverage")
		}
		return budget.NewPerpetualIntent(entry.Pair, side, orderType, entry.Maker, amount, price, leverage, entry.PositionClose), nil
	default:
		return budget.TradeIntent{}, errors.Errorf("unknown variant: %s", entry.Variant)
	}
}

func parseSide(raw string) (enum.OrderSide, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy":
		return enum.OrderSideBuy, nil
	case "sell":
		return enum.OrderSideSell, nil
	default:
		return 0, errors.Errorf("unknown side: %s", raw)
	}
}

func parseOrderType(raw string) (enum.OrderType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "limit":
		return enum.OrderTypeLimit, nil
	case "market":
		return enum.OrderTypeMarket, nil
	case "limit_maker", "limit-maker":
		return enum.OrderTypeLimitMaker, nil
	default:
		return 0, errors.Errorf("unknown order type: %s", raw)
	}
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	if len(strings.TrimSpace(raw)) == 0 {
		return decimal.Decimal{}, nil
	}

	return decimal.NewFromString(raw)
}
