package endpoints

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/twitter/smoke/common/stats"
)

func TestHealth(t *testing.T) {
	server := httptest.NewServer(NewTwitterServer("", stats.NilStatsReceiver()).mux())
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer resp.Body.Close()
	body, _ := ioutil.ReadAll(resp.Body)
	if resp.StatusCode != 200 || string(body) != "ok" {
		t.Errorf("Expected 200 ok, got %d %q", resp.StatusCode, body)
	}
}

func TestStatsEndpoint(t *testing.T) {
	stat := stats.DefaultStatsReceiver()
	stat.Counter("offers").Inc(3)
	server := httptest.NewServer(NewTwitterServer("", stat).mux())
	defer server.Close()

	resp, err := http.Get(server.URL + "/admin/metrics.json?pretty=true")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var rendered map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&rendered); err != nil {
		t.Fatalf("Stats endpoint should serve json: %v", err)
	}
	if count, ok := rendered["offers"].(float64); !ok || count != 3 {
		t.Errorf("Expected offers=3, got %v", rendered["offers"])
	}
}
