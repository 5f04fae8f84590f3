package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zenscreen/zenscreen/internal/session"
)

func TestSyncClient_LoadFound(t *testing.T) {
	want := session.NewState()
	want.TimeBank = 777

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/api/profiles/user-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth header = %q", got)
		}
		json.NewEncoder(w).Encode(Document{UserID: "user-1", State: want})
	}))
	defer srv.Close()

	c := NewSyncClient(srv.URL, "tok")
	got, err := c.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || got.TimeBank != 777 {
		t.Fatalf("got %+v, want time bank 777", got)
	}
}

func TestSyncClient_LoadMissingIsNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewSyncClient(srv.URL, "")
	got, err := c.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil for missing document", got)
	}
}

func TestSyncClient_LoadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewSyncClient(srv.URL, "")
	if _, err := c.Load(context.Background(), "user-1"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestSyncClient_Save(t *testing.T) {
	var received Document
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	state := session.NewState()
	state.TimeBank = 42

	c := NewSyncClient(srv.URL, "")
	if err := c.Save(context.Background(), "user-1", state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if received.UserID != "user-1" {
		t.Errorf("userId = %q", received.UserID)
	}
	if received.State == nil || received.State.TimeBank != 42 {
		t.Errorf("state = %+v, want time bank 42", received.State)
	}
}

func TestSyncClient_SaveRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "readonly", http.StatusForbidden)
	}))
	defer srv.Close()

	state := session.NewState()
	c := NewSyncClient(srv.URL, "")
	if err := c.Save(context.Background(), "user-1", state); err == nil {
		t.Fatal("expected error on 403")
	}
}
