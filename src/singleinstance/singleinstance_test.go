package singleinstance

import (
	"context"
	"testing"
	"time"
)

func TestServerClientRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := NewServer()
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback port unavailable in this environment: %v", err)
	}
	defer srv.Close()

	client := NewClient()
	delegatedCh := make(chan struct{})
	go func() {
		defer close(delegatedCh)
		delegated, payload, err := client.Send(ctx, Request{Verb: VerbEnable, Area: "left_half"})
		if err != nil {
			t.Errorf("client: %v", err)
		}
		if !delegated {
			t.Errorf("expected delegation")
		}
		if payload != "960x1080+0+0" {
			t.Errorf("unexpected payload %q", payload)
		}
	}()

	conn, err := srv.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	req := conn.Request()
	if req.Verb != VerbEnable || req.Area != "left_half" {
		t.Errorf("unexpected request: %+v", req)
	}
	if err := conn.RespondSuccess("960x1080+0+0"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	conn.Close()
	<-delegatedCh
}

func TestServerRejectsMalformedRequest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := NewServer()
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback port unavailable in this environment: %v", err)
	}
	defer srv.Close()

	client := NewClient()
	// An unknown area fails ParseRequest server-side and surfaces as a
	// delegated error.
	delegated, _, err := client.Send(ctx, Request{Verb: VerbEnable, Area: "nonsense"})
	if err == nil && delegated {
		t.Error("expected an error for unknown area")
	}
}
