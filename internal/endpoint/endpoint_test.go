package endpoint_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/djjrip/ggloop-bots/internal/endpoint"
	"github.com/djjrip/ggloop-bots/internal/testutil"
	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("failed to get %s: %s", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %s", err)
	}

	return resp, string(body)
}

func TestNotFound(t *testing.T) {
	srv := testutil.StartTestServer(t)

	if resp, _ := get(t, srv.URL+"/not-found"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unexpected status: %s", resp.Status)
	}
}

func TestRootRedirect(t *testing.T) {
	srv := testutil.StartTestServer(t)

	client := srv.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("failed to get /: %s", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Errorf("unexpected status: %s", resp.Status)
	}
	if loc := resp.Header.Get("Location"); loc != "/status.json" {
		t.Errorf("unexpected location: %s", loc)
	}
}

func TestGzip(t *testing.T) {
	s := testutil.NewStore(t)

	st := testutil.OutputStatus()
	for i := 0; i < 50; i++ {
		st.RecentOutputs = append(st.RecentOutputs, api.OutputEvent{
			ID:          "abc1234",
			Category:    api.CategoryProduct,
			Description: "Add weekly leaderboard",
			Timestamp:   testutil.StatusTime,
			Impact:      api.ImpactHigh,
		})
	}
	s.SetOutputStatus(st)

	srv := httptest.NewServer(endpoint.New(s, nil))
	defer srv.Close()

	req, err := http.NewRequest("GET", srv.URL+"/output.json", nil)
	if err != nil {
		t.Fatalf("failed to make request: %s", err)
	}
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		t.Fatalf("failed to get /output.json: %s", err)
	}
	resp.Body.Close()

	if enc := resp.Header.Get("Content-Encoding"); enc != "gzip" {
		t.Errorf("response should be compressed but Content-Encoding is %q", enc)
	}
}
