package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendMessage(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottok123/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	SetAPIBase(srv.URL)
	defer SetAPIBase("https://api.telegram.org")

	if err := SendMessage("tok123", "-100500", "<b>hello</b>"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if got["chat_id"] != "-100500" || got["text"] != "<b>hello</b>" {
		t.Errorf("wrong payload: %v", got)
	}
	if got["parse_mode"] != "HTML" {
		t.Errorf("expected HTML parse mode, got %v", got["parse_mode"])
	}
}
