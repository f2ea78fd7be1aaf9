package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/ability-miner/internal/bridge"
	"github.com/xtding233/ability-miner/internal/config"
)

// Seeds in [1, 1000] whose first B00 roll is OpInkEffect_Reduction begin
// with these.
var firstHits = []uint32{1, 2, 7, 8, 13, 14, 18, 19}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Search.Workers = 2
	cfg.Search.ChunkSize = 64
	cfg.Search.ProgressInterval = 0
	cfg.Server.MaxSlots = 4
	return New(cfg, nil)
}

func doJSON(t *testing.T, h http.Handler, method, target, body string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
	return rec.Code
}

func TestHTTPSearch(t *testing.T) {
	h := newTestServer(t).Handler()
	var resp bridge.Response
	code := doJSON(t, h, http.MethodPost, "/search",
		`{"brand":"B00","slots":[{"ability":"OpInkEffect_Reduction"}],"first":1,"last":1000,"cap":0}`, &resp)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if len(resp.Seeds) != 305 || !slices.Equal(resp.Seeds[:len(firstHits)], firstHits) {
		t.Fatalf("seeds = %d %v", len(resp.Seeds), resp.Seeds[:min(len(resp.Seeds), 8)])
	}
	if resp.Hex[0] != "00000001" {
		t.Fatalf("hex = %v", resp.Hex[:1])
	}
}

func TestHTTPSearchDefaultCap(t *testing.T) {
	h := newTestServer(t).Handler()
	var resp bridge.Response
	code := doJSON(t, h, http.MethodPost, "/search", `{"brand":"B00","slots":[65291],"first":1,"last":1000}`, &resp)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	// cap 100 with two workers may overshoot by one
	if n := len(resp.Seeds); n < 100 || n > 101 {
		t.Fatalf("got %d seeds", n)
	}
}

func TestHTTPSearchRejects(t *testing.T) {
	h := newTestServer(t).Handler()
	cases := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"unknown brand", `{"brand":"B12","slots":[]}`, http.StatusBadRequest},
		{"bad packed", `{"brand":"B00","slots":[14]}`, http.StatusBadRequest},
		{"too many slots", `{"brand":"B00","slots":[0,0,0,0,0]}`, http.StatusBadRequest},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if code := doJSON(t, h, http.MethodPost, "/search", c.body, nil); code != c.want {
				t.Fatalf("status %d want %d", code, c.want)
			}
		})
	}
	if code := doJSON(t, h, http.MethodGet, "/search", "", nil); code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /search status %d", code)
	}
}

func TestHTTPSearchBoundsCap(t *testing.T) {
	cfg := config.Default()
	cfg.Search.Workers = 1
	cfg.Search.ProgressInterval = 0
	cfg.Server.MaxCap = 6
	h := New(cfg, nil).Handler()

	var resp bridge.Response
	code := doJSON(t, h, http.MethodPost, "/search", `{"brand":"B00","slots":[65291],"cap":0,"first":1,"last":1000}`, &resp)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if !slices.Equal(resp.Seeds, firstHits[:6]) {
		t.Fatalf("seeds = %v", resp.Seeds)
	}
	if code := doJSON(t, h, http.MethodPost, "/search", `{"brand":"B00","slots":[],"cap":0}`, nil); code != http.StatusBadRequest {
		t.Fatalf("empty slots status %d", code)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestHTTPSearchBodyErrors(t *testing.T) {
	h := newTestServer(t).Handler()

	big := `{"brand":"B00","slots":[65291],"pad":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	if code := doJSON(t, h, http.MethodPost, "/search", big, nil); code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized body status %d", code)
	}

	req := httptest.NewRequest(http.MethodPost, "/search", failingReader{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unreadable body status %d", rec.Code)
	}
}

func TestHTTPRoll(t *testing.T) {
	h := newTestServer(t).Handler()
	var resp rollResp
	code := doJSON(t, h, http.MethodGet, "/roll?seed=54&brand=B00&drink=Action_Up", "", &resp)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if resp.Drink != "Action_Up" || len(resp.Rolls) != 1 || resp.Rolls[0].State != 14599829 {
		t.Fatalf("got %+v", resp)
	}
	if code := doJSON(t, h, http.MethodGet, "/roll?seed=x&brand=B00", "", nil); code != http.StatusBadRequest {
		t.Fatalf("bad seed status %d", code)
	}
}

func TestHTTPCatalog(t *testing.T) {
	h := newTestServer(t).Handler()
	var resp bridge.CatalogInfo
	if code := doJSON(t, h, http.MethodGet, "/catalog", "", &resp); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if len(resp.Brands) != 22 || resp.Brands[21].Name != "None" {
		t.Fatalf("brands = %d", len(resp.Brands))
	}
}

func TestApplySwapsRunner(t *testing.T) {
	s := newTestServer(t)
	cfg := config.Default()
	cfg.Search.Cap = 7
	cfg.Server.MaxSlots = 0
	s.Apply(cfg)
	rn := s.Runner()
	if rn.DefaultCap != 7 || rn.MaxSlots != 0 || rn.MaxCap != cfg.Server.MaxCap {
		t.Fatalf("runner = %+v", rn)
	}
}

func dialBufconn(t *testing.T, s *Server) *MinerClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	RegisterMinerServer(gs, s)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewMinerClient(conn)
}

func TestGRPCSearch(t *testing.T) {
	client := dialBufconn(t, newTestServer(t))
	in, err := structpb.NewStruct(map[string]any{
		"brand": "B00",
		"slots": []any{65291},
		"first": 1,
		"last":  1000,
		"cap":   0,
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := client.Search(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Fields["brand"].GetStringValue(); b != "B00" {
		t.Fatalf("brand = %q", b)
	}
	seeds := out.Fields["seeds"].GetListValue().GetValues()
	if len(seeds) != 305 {
		t.Fatalf("got %d seeds", len(seeds))
	}
	for i, want := range firstHits {
		if got := uint32(seeds[i].GetNumberValue()); got != want {
			t.Fatalf("seed %d = %d want %d", i, got, want)
		}
	}
}

func TestGRPCInvalidArgument(t *testing.T) {
	client := dialBufconn(t, newTestServer(t))
	in, err := structpb.NewStruct(map[string]any{"brand": "nope", "slots": []any{}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Search(context.Background(), in)
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("got %v", err)
	}
}
