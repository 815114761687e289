package oracle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
	"github.com/yanun0323/pkg/ws"

	"main/internal/model"
)

const (
	_binanceBaseWsUrl   = "wss://stream.binance.com:9443/ws"
	_binanceBaseRestUrl = "https://api.binance.com"
)

// BinanceFeed keeps a Static price table current from the Binance bookTicker
// stream. The table is the PriceOracle; the feed only writes mids into it.
type BinanceFeed struct {
	wss    *ws.WebSocket
	client *http.Client
	table  *Static

	mu    sync.RWMutex
	pairs map[string]string // stream symbol -> trading pair
}

func NewBinanceFeed(ctx context.Context, client *http.Client, table *Static) *BinanceFeed {
	if client == nil {
		client = http.DefaultClient
	}

	return &BinanceFeed{
		wss:    ws.New(ctx, _binanceBaseWsUrl),
		client: client,
		table:  table,
	}
}

func (feed *BinanceFeed) Close() {
	feed.wss.Close()
}

func (feed *BinanceFeed) StartWebsocket(ctx context.Context) error {
	if err := feed.wss.Start(ctx); err != nil {
		return errors.Wrap(err, "start wss")
	}

	return nil
}

func binanceSymbol(pair string) string {
	base, quote, err := model.SplitPair(pair)
	if err != nil {
		return ""
	}

	return strings.ToUpper(base + quote)
}

type binanceSubscribeRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int64    `json:"id"`
}

type binanceSubscribeResponse struct {
	ID     int64 `json:"id"`
	Result any   `json:"result"`
}

// SubscribeBookTicker subscribes 'Individual Symbol Book Ticker Stream' for a
// trading pair.
func (feed *BinanceFeed) SubscribeBookTicker(ctx context.Context, pair string) error {
	symbol := binanceSymbol(pair)
	if len(symbol) == 0 {
		return errors.Errorf("invalid pair: %s", pair)
	}

	feed.mu.Lock()
	if feed.pairs == nil {
		feed.pairs = make(map[string]string)
	}
	feed.pairs[symbol] = pair
	feed.mu.Unlock()

	appendIntoRegister := true
	if err := feed.wss.SendAndWait(ctx, ws.Sidecar{
		Sender: func(ctx context.Context, client *ws.WebSocket) error {
			payload := binanceSubscribeRequest{
				Method: "SUBSCRIBE",
				Params: []string{
					fmt.Sprintf("%s@bookTicker", strings.ToLower(symbol)),
				},
				ID: 1,
			}

			if err := client.WriteJSON(payload); err != nil {
				return errors.Wrap(err, "write subscribe payload").With("payload", payload)
			}

			return nil
		},
		Waiter: func(ctx context.Context, m ws.Message) (bool, error) {
			var resp binanceSubscribeResponse
			if err := m.Unmarshal(&resp); err != nil || resp.ID != 1 {
				return false, nil
			}

			if resp.Result != nil {
				return false, errors.Errorf("subscribe and wait, err: %+v", resp.Result)
			}
			return true, nil
		},
	}, appendIntoRegister); err != nil {
		return errors.Wrap(err, "send and wait")
	}

	return nil
}

type binanceBookTicker struct {
	UpdateID int64  `json:"u"`
	Symbol   string `json:"s"`
	BidPrice string `json:"b"`
	BidQty   string `json:"B"`
	AskPrice string `json:"a"`
	AskQty   string `json:"A"`
}

// Observe consumes book ticker events and writes mid prices into the table
// until the context or process shuts down.
func (feed *BinanceFeed) Observe(ctx context.Context) (unsubscribe func()) {
	ch, cancel := feed.wss.Subscribe()
	go func() {
		defer cancel()
		for {
			select {
			case <-sys.Shutdown():
				return
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}

				ticker, ok := ws.ReadMessage[binanceBookTicker](m)
				if !ok || len(ticker.Symbol) == 0 {
					continue
				}

				feed.applyTicker(ticker)
			}
		}
	}()

	return cancel
}

func (feed *BinanceFeed) applyTicker(ticker binanceBookTicker) {
	feed.mu.RLock()
	pair, ok := feed.pairs[ticker.Symbol]
	feed.mu.RUnlock()
	if !ok {
		return
	}

	mid, err := midPrice(ticker.BidPrice, ticker.AskPrice)
	if err != nil {
		logs.Errorf("parse book ticker %s, err: %+v", ticker.Symbol, err)
		return
	}

	feed.table.Set(pair, mid)
}

// Snapshot bootstraps the table from the REST book ticker endpoint for every
// subscribed pair, so lookups work before the first stream event lands.
func (feed *BinanceFeed) Snapshot(ctx context.Context) error {
	feed.mu.RLock()
	symbols := make(map[string]string, len(feed.pairs))
	for symbol, pair := range feed.pairs {
		symbols[symbol] = pair
	}
	feed.mu.RUnlock()

	for symbol, pair := range symbols {
		ticker, err := feed.fetchBookTicker(ctx, symbol)
		if err != nil {
			return errors.Wrap(err, "fetch book ticker").With("symbol", symbol)
		}

		mid, err := midPrice(ticker.BidPrice, ticker.AskPrice)
		if err != nil {
			return errors.Wrap(err, "parse book ticker").With("symbol", symbol)
		}

		feed.table.Set(pair, mid)
	}

	return nil
}

type binanceRestBookTicker struct {
	Symbol   string `json:"symbol"`
	BidPrice string `json:"bidPrice"`
	BidQty   string `json:"bidQty"`
	AskPrice string `json:"askPrice"`
	AskQty   string `json:"askQty"`
}

func (feed *BinanceFeed) fetchBookTicker(ctx context.Context, symbol string) (binanceRestBookTicker, error) {
	var ticker binanceRestBookTicker

	url := fmt.Sprintf("%s/api/v3/ticker/bookTicker?symbol=%s", _binanceBaseRestUrl, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ticker, errors.Wrap(err, "new request")
	}

	resp, err := feed.client.Do(req)
	if err != nil {
		return ticker, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ticker, errors.Wrap(err, "read body")
	}

	if resp.StatusCode != http.StatusOK {
		return ticker, errors.Errorf("unexpected status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := sonic.Unmarshal(body, &ticker); err != nil {
		return ticker, errors.Wrap(err, "unmarshal body")
	}

	return ticker, nil
}

func midPrice(bid, ask string) (decimal.Decimal, error) {
	bidPrice, err := decimal.NewFromString(bid)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "parse bid")
	}

	askPrice, err := decimal.NewFromString(ask)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "parse ask")
	}

	return bidPrice.Add(askPrice).Div(decimal.New(2, 0)), nil
}
