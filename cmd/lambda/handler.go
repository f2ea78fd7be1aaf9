package main

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	jsoniter "github.com/json-iterator/go"

	"github.com/xtding233/ability-miner/internal/bridge"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type urlHandler func(context.Context, events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error)

// newHandler serves `{"brand": ..., "slots": [packed...], "cap": n}` bodies.
func newHandler(rn bridge.Runner) urlHandler {
	return func(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
		body := event.Body
		if event.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(body)
			if err != nil {
				return errResp(http.StatusBadRequest, "invalid base64 body")
			}
			body = string(decoded)
		}

		req, err := bridge.DecodeRequest([]byte(body))
		if err != nil {
			return errResp(http.StatusBadRequest, err.Error())
		}
		start := time.Now()
		seeds, err := rn.Run(ctx, req)
		switch {
		case err == nil:
		case bridge.IsClientError(err):
			return errResp(http.StatusBadRequest, err.Error())
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			return errResp(http.StatusGatewayTimeout, err.Error())
		default:
			return errResp(http.StatusInternalServerError, err.Error())
		}

		respJSON, err := json.Marshal(bridge.NewResponse(req.Brand, seeds, time.Since(start).Milliseconds()))
		if err != nil {
			return errResp(http.StatusInternalServerError, err.Error())
		}
		return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK, Headers: jsonHeader, Body: string(respJSON)}, nil
	}
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}
