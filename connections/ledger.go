package connections

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/xrpscan/burnwatch/logger"
	"github.com/xrpscan/burnwatch/models"
	"github.com/xrpscan/xrpl-go"
)

// Requester is the part of *xrpl.Client used to fetch ledgers.
type Requester interface {
	Request(req xrpl.BaseRequest) (xrpl.BaseResponse, error)
}

// XrplLedgerFetcher fetches closed ledger headers over websocket.
type XrplLedgerFetcher struct {
	client  func() Requester
	timeout time.Duration
}

// NewXrplLedgerFetcher uses the RPC client, falling back to the streaming
// client, as they are at the time of each fetch.
func NewXrplLedgerFetcher(timeout time.Duration) *XrplLedgerFetcher {
	return &XrplLedgerFetcher{
		client: func() Requester {
			if c := GetXRPLRequestClient(); c != nil {
				return c
			}
			return nil
		},
		timeout: timeout,
	}
}

func (f *XrplLedgerFetcher) FetchLedger(ctx context.Context, sequence uint32) (models.LedgerDetail, error) {
	client := f.client()
	if client == nil {
		return models.LedgerDetail{}, errors.New("XRPL client is not initialized")
	}

	requestId := fmt.Sprintf("ledger.%v", sequence)
	request := xrpl.BaseRequest{
		"id":           requestId,
		"command":      "ledger",
		"ledger_index": sequence,
		"transactions": false,
		"expand":       false,
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	type result struct {
		response xrpl.BaseResponse
		err      error
	}
	resultChan := make(chan result, 1)
	startTime := time.Now()
	go func() {
		response, err := client.Request(request)
		resultChan <- result{response: response, err: err}
	}()

	var response xrpl.BaseResponse
	var err error
	select {
	case res := <-resultChan:
		response, err = res.response, res.err
	case <-ctx.Done():
		err = fmt.Errorf("ledger request timed out: %w", ctx.Err())
	}
	if err != nil {
		if isWebSocketError(err) {
			logger.Log.Warn().Uint32("ledger_index", sequence).Dur("request_duration", time.Since(startTime)).Err(err).Msg("WebSocket connection error detected")
		}
		return models.LedgerDetail{}, err
	}

	logger.Log.Debug().
		Uint32("ledger_index", sequence).
		Str("request_id", requestId).
		Dur("request_duration", time.Since(startTime)).
		Msg("Received ledger from XRPL server")
	return parseLedgerResponse(sequence, response)
}

// parseLedgerResponse reads result.ledger.{ledger_index,total_coins}.
// total_coins is passed through as a string so no precision is lost.
func parseLedgerResponse(sequence uint32, response xrpl.BaseResponse) (models.LedgerDetail, error) {
	if status, _ := response["status"].(string); status == "error" {
		return models.LedgerDetail{}, fmt.Errorf("ledger %d: %v: %v", sequence, response["error"], response["error_message"])
	}
	result, ok := response["result"].(map[string]interface{})
	if !ok {
		return models.LedgerDetail{}, fmt.Errorf("ledger %d: response has no result property", sequence)
	}
	ledger, ok := result["ledger"].(map[string]interface{})
	if !ok {
		return models.LedgerDetail{}, fmt.Errorf("ledger %d: response has no result.ledger property", sequence)
	}

	total, ok := ledger["total_coins"].(string)
	if !ok {
		return models.LedgerDetail{}, &models.MalformedEventError{Field: "total_coins", Value: fmt.Sprint(ledger["total_coins"]), Err: errors.New("not a string")}
	}

	detail := models.LedgerDetail{Sequence: sequence, TotalDrops: total}
	// API v1 encodes ledger_index as a string, v2 as a number.
	switch index := ledger["ledger_index"].(type) {
	case string:
		v, err := strconv.ParseUint(index, 10, 32)
		if err != nil {
			return models.LedgerDetail{}, &models.MalformedEventError{Field: "ledger_index", Value: index, Err: err}
		}
		detail.Sequence = uint32(v)
	case float64:
		detail.Sequence = uint32(index)
	}
	return detail, nil
}
