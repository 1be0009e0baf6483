package identity

import (
	"testing"

	"kidpress/api/internal/store"
)

func TestBroadcasterDeliversCurrentOnSubscribe(t *testing.T) {
	b := NewBroadcaster()
	b.Publish(&store.UserProfile{UID: "uid-1"})

	var got *store.UserProfile
	unsubscribe := b.Subscribe(func(user *store.UserProfile) { got = user })
	defer unsubscribe()

	if got == nil || got.UID != "uid-1" {
		t.Fatalf("subscriber did not receive current user, got %+v", got)
	}
}

func TestBroadcasterPublishReachesAllSubscribers(t *testing.T) {
	b := NewBroadcaster()

	var first, second *store.UserProfile
	defer b.Subscribe(func(user *store.UserProfile) { first = user })()
	defer b.Subscribe(func(user *store.UserProfile) { second = user })()

	b.Publish(&store.UserProfile{UID: "uid-2"})
	if first == nil || first.UID != "uid-2" || second == nil || second.UID != "uid-2" {
		t.Fatalf("publish not delivered to all subscribers: %+v / %+v", first, second)
	}

	b.Publish(nil)
	if first != nil || second != nil {
		t.Fatal("sign-out (nil) not delivered")
	}
}

func TestBroadcasterUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroadcaster()

	calls := 0
	unsubscribe := b.Subscribe(func(*store.UserProfile) { calls++ })
	unsubscribe()

	b.Publish(&store.UserProfile{UID: "uid-3"})
	if calls != 1 { // initial delivery only
		t.Fatalf("calls = %d, want 1 (initial delivery only)", calls)
	}
	if b.Current() == nil || b.Current().UID != "uid-3" {
		t.Fatalf("Current() = %+v, want uid-3", b.Current())
	}
}
