package liquidity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	coreconfig "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(coreconfig.AllbridgeConfig{APIURL: srv.URL, RequestTimeout: time.Second})
}

func TestDetails(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/liquidity/details" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("ownerAddress") != "0xowner" || q.Get("tokenAddress") != "0xtoken" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"rewardDebt": 107.25, "lpAmount": 5000}`))
	})

	details, err := client.Details(context.Background(), "0xowner", "0xtoken")
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if details == nil {
		t.Fatal("expected a position")
	}
	if !details.RewardDebt.Equal(decimal.RequireFromString("107.25")) {
		t.Errorf("rewardDebt = %s", details.RewardDebt)
	}
	if !details.LPAmount.Equal(decimal.RequireFromString("5000")) {
		t.Errorf("lpAmount = %s", details.LPAmount)
	}
}

func TestDetailsNoPosition(t *testing.T) {
	for _, body := range []string{"", "null", "{}", "[]"} {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		details, err := client.Details(context.Background(), "0xowner", "0xtoken")
		if err != nil {
			t.Fatalf("body %q: %v", body, err)
		}
		if details != nil {
			t.Fatalf("body %q must read as no position, got %+v", body, details)
		}
	}
}

func TestDetailsBadStatus(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if _, err := client.Details(context.Background(), "0xowner", "0xtoken"); err == nil {
		t.Fatal("expected error on 500")
	}
}
