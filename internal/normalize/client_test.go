package normalize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"testing"
	"time"
)

func TestNormalizedNodes(t *testing.T) {
	var gotCuries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Curies []string `json:"curies"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		gotCuries = req.Curies
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"MONDO:0005148": {"id": {"identifier": "MONDO:0005148", "label": "type 2 diabetes"}, "type": ["biolink:Disease"]},
			"PR:000001754": null
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second, 10)
	nodes, err := client.NormalizedNodes(context.Background(), []string{
		"MONDO:0005148", "PR:000001754", "MONDO:0005148", "",
	})
	if err != nil {
		t.Fatalf("NormalizedNodes: %v", err)
	}

	sort.Strings(gotCuries)
	if !reflect.DeepEqual(gotCuries, []string{"MONDO:0005148", "PR:000001754"}) {
		t.Errorf("request curies = %v, want deduplicated pair without blanks", gotCuries)
	}

	if len(nodes) != 1 {
		t.Fatalf("len(nodes) = %d, want 1 (null entry dropped)", len(nodes))
	}
	node := nodes["MONDO:0005148"]
	if node.Label("x") != "type 2 diabetes" || node.Category() != "biolink:Disease" {
		t.Errorf("node = %+v", node)
	}
}

func TestNormalizedNodesEmptyBatch(t *testing.T) {
	// No identifiers means no HTTP call at all.
	client := New("http://127.0.0.1:1", time.Second, 10)
	nodes, err := client.NormalizedNodes(context.Background(), nil)
	if err != nil {
		t.Fatalf("NormalizedNodes: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("len(nodes) = %d, want 0", len(nodes))
	}
}

func TestNormalizedNodesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, 10)
	if _, err := client.NormalizedNodes(context.Background(), []string{"MONDO:0005148"}); err == nil {
		t.Fatal("want error on non-200 response")
	}
}

func TestNodeFallbacks(t *testing.T) {
	var n *Node
	if got := n.Label("UNKNOWN_NAME"); got != "UNKNOWN_NAME" {
		t.Errorf("nil label = %q", got)
	}
	if got := n.Category(); got != "biolink:NamedThing" {
		t.Errorf("nil category = %q", got)
	}
}
