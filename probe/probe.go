package probe

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"lighterprobe/models"
)

// RecentTradesLimit is the number of trades requested for the sampled market.
const RecentTradesLimit = 5

// ErrEmptyResponse is returned when a call succeeds without a response body.
var ErrEmptyResponse = errors.New("empty response")

// Reporter receives the progress lines of a run. *logger.Entry satisfies it.
type Reporter interface {
	Info(args ...interface{})
	Error(args ...interface{})
}

// Execute acquires a client through open, walks the verification chain and
// releases the client on every exit path. The returned report is never nil.
//
// A step failure stops the chain, is reported once at error level and is
// returned as is. A release failure is joined after it.
func Execute(ctx context.Context, open Opener, log Reporter) (report *models.RunReport, err error) {
	report = &models.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Steps:     make([]models.StepResult, 0, 6),
	}
	defer func() {
		report.FinishedAt = time.Now().UTC()
		report.Success = err == nil
		if err != nil {
			report.Error = err.Error()
		}
	}()

	log.Info("Initializing API client")
	client, err := open(ctx)
	if err == nil && client == nil {
		err = fmt.Errorf("open client: %w", ErrEmptyResponse)
	}
	if err != nil {
		log.Error(fmt.Sprintf("Error initializing API client: %v", err))
		return report, err
	}
	if h, ok := client.(hostNamer); ok {
		report.Host = h.Host()
	}

	defer func() {
		log.Info("Closing API client")
		cerr := client.Close()
		if cerr == nil {
			return
		}
		log.Error(fmt.Sprintf("Error closing API client: %v", cerr))
		if err == nil {
			err = cerr
		} else {
			err = errors.Join(err, cerr)
		}
	}()

	if err = verify(ctx, client, log, report); err != nil {
		log.Error(fmt.Sprintf("Error during verification: %v", err))
		return report, err
	}

	log.Info("All checks completed successfully")
	return report, nil
}

func verify(ctx context.Context, c Client, log Reporter, report *models.RunReport) error {
	log.Info("Testing platform information retrieval")
	info, err := call(ctx, report, models.StepLayer2Info, c.Layer2BasicInfo)
	if err != nil {
		return err
	}
	log.Info(fmt.Sprintf("Layer 2 basic info: %v", info))

	log.Info("Testing order book data retrieval")
	books, err := call(ctx, report, models.StepOrderBooks, c.OrderBooks)
	if err != nil {
		return err
	}
	log.Info(fmt.Sprintf("Found %d order books", len(books.OrderBooks)))

	if len(books.OrderBooks) > 0 {
		marketID := books.OrderBooks[0].MarketID
		report.MarketID = &marketID

		log.Info(fmt.Sprintf("Getting details for market ID: %d", marketID))
		details, err := call(ctx, report, models.StepOrderBookDetails, func(ctx context.Context) (*models.OrderBookDetails, error) {
			return c.OrderBookDetails(ctx, marketID)
		})
		if err != nil {
			return err
		}
		log.Info(fmt.Sprintf("Order book details: %v", details))

		trades, err := call(ctx, report, models.StepRecentTrades, func(ctx context.Context) (*models.Trades, error) {
			return c.RecentTrades(ctx, marketID, RecentTradesLimit)
		})
		if err != nil {
			return err
		}
		log.Info(fmt.Sprintf("Recent trades: %v", trades))
	} else {
		log.Info("No order books listed, skipping market details")
		skip(report, models.StepOrderBookDetails, models.StepRecentTrades)
	}

	log.Info("Testing block data retrieval")
	height, err := call(ctx, report, models.StepCurrentHeight, c.CurrentHeight)
	if err != nil {
		return err
	}
	h := height.Height
	report.Height = &h
	log.Info(fmt.Sprintf("Current block height: %d", h))

	block, err := call(ctx, report, models.StepBlockByHeight, func(ctx context.Context) (*models.Blocks, error) {
		return c.Block(ctx, models.BlockByHeight, strconv.FormatInt(h, 10))
	})
	if err != nil {
		return err
	}
	log.Info(fmt.Sprintf("Latest block info: %v", block))
	return nil
}

// call runs one step, rejects a nil result and records the outcome.
func call[T any](ctx context.Context, report *models.RunReport, name string, fn func(context.Context) (*T, error)) (*T, error) {
	start := time.Now()
	out, err := fn(ctx)
	if err == nil && out == nil {
		err = fmt.Errorf("%s: %w", name, ErrEmptyResponse)
	}

	res := models.StepResult{
		Name:      name,
		Status:    models.StepOK,
		StartedAt: start.UTC(),
		Duration:  time.Since(start),
	}
	if err != nil {
		res.Status = models.StepFailed
		res.Error = err.Error()
	}
	report.Steps = append(report.Steps, res)
	return out, err
}

func skip(report *models.RunReport, names ...string) {
	now := time.Now().UTC()
	for _, name := range names {
		report.Steps = append(report.Steps, models.StepResult{Name: name, Status: models.StepSkipped, StartedAt: now})
	}
}
