package coral

import (
	"net/url"
	"strings"
	"testing"
)

func TestServerURL_EncodesIdentity(t *testing.T) {
	got, err := ServerURL("http://localhost:5555/sse", "interface_agent",
		"An agent that takes the user's input & interacts with other agents")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("result is not a valid URL: %v", err)
	}
	if u.Query().Get("agentId") != "interface_agent" {
		t.Errorf("agentId not preserved: %q", u.Query().Get("agentId"))
	}
	if !strings.Contains(u.Query().Get("agentDescription"), "&") {
		t.Errorf("description lost its special characters: %q", u.Query().Get("agentDescription"))
	}
	if !strings.HasPrefix(got, "http://localhost:5555/sse?") {
		t.Errorf("base URL mangled: %q", got)
	}
}

func TestServerURL_KeepsExistingQuery(t *testing.T) {
	got, err := ServerURL("http://coral.example/sse?waitForAgents=1", "a1", "desc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, _ := url.Parse(got)
	if u.Query().Get("waitForAgents") != "1" {
		t.Errorf("existing query parameter dropped: %q", got)
	}
	if u.Query().Get("agentId") != "a1" {
		t.Errorf("agentId missing: %q", got)
	}
}

func TestServerURL_InvalidBase(t *testing.T) {
	if _, err := ServerURL("http://bad url with spaces", "a1", "desc"); err == nil {
		t.Fatal("expected error for unparseable base URL")
	}
}
