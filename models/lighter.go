package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CodeOK is the result code Lighter puts in successful response bodies.
const CodeOK = 200

// ResultCode is embedded in every Lighter response body.
type ResultCode struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// Result exposes the embedded code to callers holding any response type.
func (r ResultCode) Result() ResultCode {
	return r
}

// Layer2BasicInfo is the platform summary returned by /api/v1/layer2BasicInfo.
type Layer2BasicInfo struct {
	ResultCode
	BlockHeight            int64 `json:"block_height"`
	TotalAccounts          int64 `json:"total_accounts"`
	DailyActiveUsers       int64 `json:"daily_active_users"`
	TotalOrderBookMarkets  int64 `json:"total_order_book_markets"`
	TotalTransactionsCount int64 `json:"total_transactions_count"`
}

func (i Layer2BasicInfo) String() string {
	return fmt.Sprintf("block_height=%d total_accounts=%d daily_active_users=%d markets=%d transactions=%d",
		i.BlockHeight, i.TotalAccounts, i.DailyActiveUsers, i.TotalOrderBookMarkets, i.TotalTransactionsCount)
}

// OrderBook describes one tradable market.
type OrderBook struct {
	Symbol                 string          `json:"symbol"`
	MarketID               int64           `json:"market_id"`
	Status                 string          `json:"status"`
	TakerFee               decimal.Decimal `json:"taker_fee"`
	MakerFee               decimal.Decimal `json:"maker_fee"`
	LiquidationFee         decimal.Decimal `json:"liquidation_fee"`
	MinBaseAmount          decimal.Decimal `json:"min_base_amount"`
	MinQuoteAmount         decimal.Decimal `json:"min_quote_amount"`
	SupportedSizeDecimals  int             `json:"supported_size_decimals"`
	SupportedPriceDecimals int             `json:"supported_price_decimals"`
	SupportedQuoteDecimals int             `json:"supported_quote_decimals"`
}

// OrderBooks is the market listing returned by /api/v1/orderBooks.
type OrderBooks struct {
	ResultCode
	OrderBooks []OrderBook `json:"order_books"`
}

// OrderBookDetail carries the 24h statistics of one market.
type OrderBookDetail struct {
	OrderBook
	LastTradePrice        decimal.Decimal `json:"last_trade_price"`
	DailyTradesCount      int64           `json:"daily_trades_count"`
	DailyBaseTokenVolume  decimal.Decimal `json:"daily_base_token_volume"`
	DailyQuoteTokenVolume decimal.Decimal `json:"daily_quote_token_volume"`
	DailyPriceLow         decimal.Decimal `json:"daily_price_low"`
	DailyPriceHigh        decimal.Decimal `json:"daily_price_high"`
	DailyPriceChange      decimal.Decimal `json:"daily_price_change"`
	OpenInterest          decimal.Decimal `json:"open_interest"`
}

// OrderBookDetails is returned by /api/v1/orderBookDetails.
type OrderBookDetails struct {
	ResultCode
	OrderBookDetails []OrderBookDetail `json:"order_book_details"`
}

func (d OrderBookDetails) String() string {
	if len(d.OrderBookDetails) == 0 {
		return "no details"
	}
	ob := d.OrderBookDetails[0]
	return fmt.Sprintf("symbol=%s market_id=%d status=%s last_trade_price=%s daily_trades=%d daily_volume=%s open_interest=%s",
		ob.Symbol, ob.MarketID, ob.Status, ob.LastTradePrice, ob.DailyTradesCount, ob.DailyQuoteTokenVolume, ob.OpenInterest)
}

// Trade is a single fill.
type Trade struct {
	TradeID      int64           `json:"trade_id"`
	TxHash       string          `json:"tx_hash"`
	Type         string          `json:"type"`
	MarketID     int64           `json:"market_id"`
	Size         decimal.Decimal `json:"size"`
	Price        decimal.Decimal `json:"price"`
	UsdAmount    decimal.Decimal `json:"usd_amount"`
	AskID        int64           `json:"ask_id"`
	BidID        int64           `json:"bid_id"`
	AskAccountID int64           `json:"ask_account_id"`
	BidAccountID int64           `json:"bid_account_id"`
	IsMakerAsk   bool            `json:"is_maker_ask"`
	BlockHeight  int64           `json:"block_height"`
	Timestamp    int64           `json:"timestamp"`
}

// Trades is returned by /api/v1/recentTrades.
type Trades struct {
	ResultCode
	Trades []Trade `json:"trades"`
}

func (t Trades) String() string {
	out := fmt.Sprintf("%d trades", len(t.Trades))
	for _, tr := range t.Trades {
		out += fmt.Sprintf(" [id=%d price=%s size=%s]", tr.TradeID, tr.Price, tr.Size)
	}
	return out
}

// CurrentHeight is returned by /api/v1/currentHeight.
type CurrentHeight struct {
	ResultCode
	Height int64 `json:"height"`
}

// BlockLookup selects how /api/v1/block resolves the value parameter.
type BlockLookup string

const (
	BlockByHeight BlockLookup = "height"
	BlockByHash   BlockLookup = "hash"
)

func (b BlockLookup) Valid() bool {
	return b == BlockByHeight || b == BlockByHash
}

// Block is one L2 block.
type Block struct {
	Commitment           string `json:"commitment"`
	Height               int64  `json:"height"`
	StateRoot            string `json:"state_root"`
	PriorityOperations   int64  `json:"priority_operations"`
	OnChainL2BlockHeight int64  `json:"on_chain_l2_block_height"`
	CommittedTxHash      string `json:"committed_tx_hash"`
	CommittedAt          int64  `json:"committed_at"`
	VerifiedTxHash       string `json:"verified_tx_hash"`
	VerifiedAt           int64  `json:"verified_at"`
	ExecutedTxHash       string `json:"executed_tx_hash"`
	ExecutedAt           int64  `json:"executed_at"`
	Status               int    `json:"status"`
	CreatedAt            int64  `json:"created_at"`
	TransactionsCount    int64  `json:"txs_count"`
}

// Blocks is returned by /api/v1/block.
type Blocks struct {
	ResultCode
	Total  int64   `json:"total"`
	Blocks []Block `json:"blocks"`
}

func (b Blocks) String() string {
	if len(b.Blocks) == 0 {
		return "no blocks"
	}
	blk := b.Blocks[0]
	return fmt.Sprintf("height=%d commitment=%s state_root=%s status=%d txs=%d created_at=%d",
		blk.Height, blk.Commitment, blk.StateRoot, blk.Status, blk.TransactionsCount, blk.CreatedAt)
}
