package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/xtding233/ability-miner/internal/bridge"
	"github.com/xtding233/ability-miner/internal/search"
)

func testHandler() urlHandler {
	return newHandler(bridge.Runner{
		Engine:     search.NewEngine(search.Options{Workers: 1, ChunkSize: 128}, nil),
		DefaultCap: 100,
		MaxSlots:   2,
	})
}

func TestHandlerSearch(t *testing.T) {
	body := `{"brand":"B00","slots":[65291],"cap":5,"first":1,"last":1000}`
	for _, b64 := range []bool{false, true} {
		event := events.LambdaFunctionURLRequest{Body: body}
		if b64 {
			event.Body = base64.StdEncoding.EncodeToString([]byte(body))
			event.IsBase64Encoded = true
		}
		resp, err := testHandler()(context.Background(), event)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, resp.Body)
		}
		var out bridge.Response
		if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
			t.Fatal(err)
		}
		want := []uint32{1, 2, 7, 8, 13}
		if len(out.Seeds) != len(want) {
			t.Fatalf("seeds = %v", out.Seeds)
		}
		for i := range want {
			if out.Seeds[i] != want[i] {
				t.Fatalf("seeds = %v want %v", out.Seeds, want)
			}
		}
	}
}

func TestHandlerRejects(t *testing.T) {
	cases := []events.LambdaFunctionURLRequest{
		{Body: "%%%", IsBase64Encoded: true},
		{Body: `not json`},
		{Body: `{"brand":"B00","slots":[65291,65291,65291]}`},
		{Body: `{"brand":"B00","slots":[65536]}`},
	}
	for _, ev := range cases {
		resp, err := testHandler()(context.Background(), ev)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%q: status %d", ev.Body, resp.StatusCode)
		}
	}
}
