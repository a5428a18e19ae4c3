package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/domain"
)

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	var got domain.PlaceDetails
	ok, err := c.Get(ctx, "places:details:p1", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss on empty cache")
	}

	want := domain.PlaceDetails{
		PlaceID: "p1",
		Name:    "Shoreditch Heights",
		Rating:  4.6,
		Reviews: []domain.PlaceReview{{AuthorName: "John", Rating: 5, Time: 1704067200}},
	}
	if err := c.Set(ctx, "places:details:p1", want, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	ok, err = c.Get(ctx, "places:details:p1", &got)
	if err != nil || !ok {
		t.Fatalf("get after set: ok=%v err=%v", ok, err)
	}
	if got.Name != want.Name || len(got.Reviews) != 1 || got.Reviews[0].AuthorName != "John" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if err := c.Del(ctx, "places:details:p1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "places:details:p1", &got); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_TTLExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "k", domain.PlaceDetails{PlaceID: "p1"}, 30); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	var got domain.PlaceDetails
	if ok, _ := c.Get(ctx, "k", &got); ok {
		t.Fatalf("entry should have expired")
	}
}
