package scene

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ChicagoDave/trailworld/pkg/geo"
	"github.com/ChicagoDave/trailworld/pkg/layout"
)

func recordsN(n int) []layout.Record {
	recs := make([]layout.Record, n)
	for i := range recs {
		recs[i] = layout.Record{
			ID:       layout.RecordID("rock", i),
			Category: "rock",
			Position: geo.Pt(float64(i), 0),
			Scale:    geo.P3(1, 1, 1),
		}
	}
	return recs
}

func TestPublishAdvancesGeneration(t *testing.T) {
	set := NewBufferSet()
	buf := set.Buffer("rock")
	if g := buf.Generation(); g != 0 {
		t.Fatalf("initial generation = %d, want 0", g)
	}
	if b := buf.Batch(); b == nil || b.Count != 0 {
		t.Fatalf("initial batch = %+v, want empty", b)
	}
	for want := uint64(1); want <= 3; want++ {
		b, err := set.Publish("rock", recordsN(int(want)))
		if err != nil {
			t.Fatalf("Publish: %v", err)
		}
		if b.Generation != want {
			t.Errorf("generation = %d, want %d", b.Generation, want)
		}
		if buf.Batch() != b {
			t.Error("committed batch is not the published one")
		}
	}
}

func TestFailedPublishKeepsBatch(t *testing.T) {
	set := NewBufferSet()
	first, _ := set.Publish("rock", recordsN(2))
	bad := recordsN(2)
	bad[1].Color = "nope"
	if _, err := set.Publish("rock", bad); err == nil {
		t.Fatal("expected error")
	}
	if got := set.Buffer("rock").Batch(); got != first {
		t.Errorf("failed publish replaced the committed batch")
	}
}

func TestPublishRejectsInvalidBatch(t *testing.T) {
	set := NewBufferSet()
	first, _ := set.Publish("rock", recordsN(2))

	nan := recordsN(3)
	nan[2].Position = geo.Pt(math.NaN(), 0)
	if _, err := set.Publish("rock", nan); err == nil {
		t.Error("expected error for a non-finite position")
	}

	dup := recordsN(3)
	dup[2].ID = dup[0].ID
	if _, err := set.Publish("rock", dup); err == nil {
		t.Error("expected error for a duplicate ID")
	}

	buf := set.Buffer("rock")
	if buf.Batch() != first || buf.Generation() != 1 {
		t.Errorf("rejected publish moved the buffer to generation %d", buf.Generation())
	}
}

func TestWait(t *testing.T) {
	set := NewBufferSet()
	buf := set.Buffer("rock")

	done := make(chan *Batch)
	go func() {
		b, err := buf.Wait(context.Background(), 0)
		if err != nil {
			t.Errorf("Wait: %v", err)
		}
		done <- b
	}()

	time.Sleep(10 * time.Millisecond)
	if _, err := set.Publish("rock", recordsN(4)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case b := <-done:
		if b.Generation != 1 || b.Count != 4 {
			t.Errorf("Wait returned generation %d count %d, want 1 and 4", b.Generation, b.Count)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after publish")
	}

	// Already past: returns immediately.
	b, err := buf.Wait(context.Background(), 0)
	if err != nil || b.Generation != 1 {
		t.Errorf("Wait(0) = %v, %v", b, err)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	buf := NewBufferSet().Buffer("rock")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := buf.Wait(ctx, 0); err != context.DeadlineExceeded {
		t.Errorf("Wait err = %v, want deadline exceeded", err)
	}
}

func TestReadersNeverSeePartialBatch(t *testing.T) {
	set := NewBufferSet()
	buf := set.Buffer("rock")
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var last uint64
			for ctx.Err() == nil {
				b := buf.Batch()
				if len(b.Transforms) != b.Count*TransformStride || len(b.IDs) != b.Count {
					t.Errorf("generation %d: partial batch (count %d, %d floats)", b.Generation, b.Count, len(b.Transforms))
					return
				}
				if b.Generation < last {
					t.Errorf("generation went backwards: %d after %d", b.Generation, last)
					return
				}
				last = b.Generation
			}
		}()
	}

	for i := 1; i <= 200; i++ {
		if _, err := set.Publish("rock", recordsN(i%37)); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	cancel()
	wg.Wait()
	if g := buf.Generation(); g != 200 {
		t.Errorf("final generation = %d, want 200", g)
	}
}

func TestSubscribe(t *testing.T) {
	set := NewBufferSet()
	updates, cancel := set.Subscribe(8)
	defer cancel()

	err := set.PublishAll(map[string][]layout.Record{
		"rock": recordsN(3),
		"bush": recordsN(1),
	})
	if err != nil {
		t.Fatalf("PublishAll: %v", err)
	}
	var got []string
	for i := 0; i < 2; i++ {
		u := <-updates
		got = append(got, fmt.Sprintf("%s:%d:%d", u.Category, u.Generation, u.Count))
	}
	if got[0] != "bush:1:1" || got[1] != "rock:1:3" {
		t.Errorf("updates = %v, want [bush:1:1 rock:1:3]", got)
	}
	if cats := set.Categories(); len(cats) != 2 || cats[0] != "bush" {
		t.Errorf("Categories = %v", cats)
	}

	cancel()
	if _, ok := <-updates; ok {
		t.Error("channel should be closed after cancel")
	}
}
