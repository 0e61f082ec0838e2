package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/format"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/worker"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type searchResult struct {
	*worker.Summary
	Detail string `json:"detail"`
}

type app struct {
	worker *worker.Worker
	logger *slog.Logger
}

func (a *app) handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req worker.Request
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(http.StatusBadRequest, "invalid JSON: "+err.Error())
	}

	sum, err := a.worker.Run(ctx, req)
	switch {
	case errors.Is(err, worker.ErrInvalidRequest):
		return errResp(http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return errResp(http.StatusGatewayTimeout, "search timed out")
	case err != nil:
		a.logger.Error("search failed", "error", err)
		return errResp(http.StatusInternalServerError, "search failed")
	}

	detail := ""
	if seqs, err := sum.Reconstruct(a.worker.Catalog(), a.worker.Valuation()); err != nil {
		a.logger.Warn("rebuild for detail failed", "run_id", sum.RunID, "error", err)
	} else {
		detail = format.FormatResult(a.worker.Catalog(), seqs, sum)
	}

	respJSON, _ := json.Marshal(searchResult{Summary: sum, Detail: detail})
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}
