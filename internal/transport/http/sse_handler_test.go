package http

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func sseJoin(t *testing.T, baseURL, name string) string {
	t.Helper()

	resp := postJSON(t, baseURL+"/api/join", `{"display_name":"`+name+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join status = %d", resp.StatusCode)
	}
	var join SSEJoinResponse
	if err := json.NewDecoder(resp.Body).Decode(&join); err != nil {
		t.Fatalf("decode join: %v", err)
	}
	if join.SessionID == "" {
		t.Fatal("join returned empty session id")
	}
	return join.SessionID
}

func readSSEFrame(t *testing.T, scanner *bufio.Scanner) testOutbound {
	t.Helper()

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var out testOutbound
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if err := json.Unmarshal([]byte(payload), &out); err != nil {
			t.Fatalf("decode sse frame %q: %v", payload, err)
		}
		return out
	}
	t.Fatal("stream ended before a frame arrived")
	return testOutbound{}
}

func TestSSEJoinStreamsWelcomeAndMessages(t *testing.T) {
	ts := startTestServer(t)

	sessionID := sseJoin(t, ts.URL, "carol")

	stream, err := http.Get(ts.URL + "/api/events/" + sessionID)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer stream.Body.Close()
	scanner := bufio.NewScanner(stream.Body)

	frame := readSSEFrame(t, scanner)
	if frame.Type != "welcome" {
		t.Fatalf("first frame = %q, want welcome", frame.Type)
	}

	resp := postJSON(t, ts.URL+"/api/message", `{"session_id":"`+sessionID+`","text":"hi all"}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("message status = %d", resp.StatusCode)
	}

	for {
		frame = readSSEFrame(t, scanner)
		if frame.Type != "message" {
			continue
		}
		var msg struct {
			Text       string `json:"text"`
			SenderName string `json:"sender_name"`
		}
		if err := json.Unmarshal(frame.Data, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		if msg.Text != "hi all" || msg.SenderName != "carol" {
			t.Fatalf("unexpected message: %+v", msg)
		}
		return
	}
}

func TestSSETypingToggle(t *testing.T) {
	ts := startTestServer(t)

	sessionID := sseJoin(t, ts.URL, "dave")

	// Omitted is_typing defaults to start.
	resp := postJSON(t, ts.URL+"/api/typing", `{"session_id":"`+sessionID+`"}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("typing status = %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/typing", `{"session_id":"`+sessionID+`","is_typing":false}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("typing stop status = %d", resp.StatusCode)
	}
}

func TestSSELeaveRemovesSession(t *testing.T) {
	ts := startTestServer(t)

	sessionID := sseJoin(t, ts.URL, "erin")

	resp := postJSON(t, ts.URL+"/api/leave", `{"session_id":"`+sessionID+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leave status = %d", resp.StatusCode)
	}

	// The session is gone: another leave and further frames both 404.
	resp = postJSON(t, ts.URL+"/api/leave", `{"session_id":"`+sessionID+`"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second leave status = %d", resp.StatusCode)
	}
	resp = postJSON(t, ts.URL+"/api/message", `{"session_id":"`+sessionID+`","text":"hi"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("message after leave status = %d", resp.StatusCode)
	}
}

func TestSSEEventsUnknownSession(t *testing.T) {
	ts := startTestServer(t)

	resp, err := http.Get(ts.URL + "/api/events/no-such-session")
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
