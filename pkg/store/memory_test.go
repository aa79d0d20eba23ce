package store

import (
	"context"
	"errors"
	"testing"

	"github.com/tilegrid/boardflow/pkg/board"
)

func TestMemoryStoreCreateAndList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	recs := []EdgeRecord{
		{Conversation: "c1", Source: "a", Target: "b", Style: board.EdgeStyleSolid},
		{Conversation: "c1", Source: "b", Target: "c", Style: board.EdgeStyleDashedAnimated},
		{Conversation: "c2", Source: "a", Target: "b", Style: board.EdgeStyleSolid},
	}
	for _, rec := range recs {
		if err := s.Create(ctx, rec); err != nil {
			t.Fatalf("Create(%+v): %v", rec, err)
		}
	}

	got, err := s.List(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("List(c1) = %d records, want 2", len(got))
	}
	for _, rec := range got {
		if rec.CreatedAt.IsZero() {
			t.Errorf("record %s->%s missing CreatedAt stamp", rec.Source, rec.Target)
		}
	}

	if got, _ := s.List(ctx, "unknown"); len(got) != 0 {
		t.Errorf("List(unknown) = %d records", len(got))
	}
}

func TestMemoryStoreDuplicateInsertIsSuccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := EdgeRecord{Conversation: "c", Source: "a", Target: "b", Style: board.EdgeStyleSolid}
	if err := s.Create(ctx, rec); err != nil {
		t.Fatal(err)
	}

	// Same triple with a different style: success, original untouched.
	dup := rec
	dup.Style = board.EdgeStyleDashedAnimated
	if err := s.Create(ctx, dup); err != nil {
		t.Errorf("duplicate insert: %v, want success", err)
	}

	got, _ := s.List(ctx, "c")
	if len(got) != 1 {
		t.Fatalf("List = %d records after duplicate, want 1", len(got))
	}
	if got[0].Style != board.EdgeStyleSolid {
		t.Errorf("duplicate insert overwrote style: %s", got[0].Style)
	}

	// The reverse direction is a distinct triple.
	rev := EdgeRecord{Conversation: "c", Source: "b", Target: "a"}
	if err := s.Create(ctx, rev); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.List(ctx, "c"); len(got) != 2 {
		t.Errorf("List = %d records, want 2 after reverse edge", len(got))
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Create(ctx, EdgeRecord{Conversation: "c", Source: "a", Target: "b"})
	if err := s.Delete(ctx, "c", "a", "b"); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.List(ctx, "c"); len(got) != 0 {
		t.Errorf("List = %d records after Delete", len(got))
	}

	// Deleting a missing edge succeeds.
	if err := s.Delete(ctx, "c", "a", "b"); err != nil {
		t.Errorf("delete of missing edge: %v", err)
	}
}

func TestMemoryStoreFailNext(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	boom := errors.New("backend down")
	s.FailNext = boom

	if err := s.Create(ctx, EdgeRecord{Conversation: "c", Source: "a", Target: "b"}); err != boom {
		t.Errorf("Create = %v, want injected failure", err)
	}
	// The failure is consumed; the next call succeeds.
	if err := s.Create(ctx, EdgeRecord{Conversation: "c", Source: "a", Target: "b"}); err != nil {
		t.Errorf("Create after consumed failure: %v", err)
	}

	// Reads trip the injected failure too.
	s.FailNext = boom
	if _, err := s.List(ctx, "c"); err != boom {
		t.Errorf("List = %v, want injected failure", err)
	}
	if got, err := s.List(ctx, "c"); err != nil || len(got) != 1 {
		t.Errorf("List after consumed failure = %d records, err %v", len(got), err)
	}
}
