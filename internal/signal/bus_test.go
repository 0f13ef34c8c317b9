package signal

import "testing"

func TestFlipChangesToken(t *testing.T) {
	bus := NewBus()
	before := bus.Version(TopicDocuments)
	bus.Flip(TopicDocuments)
	if bus.Version(TopicDocuments) == before {
		t.Fatal("expected token to change after flip")
	}
}

func TestSubscriptionChanged(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicDocuments, TopicDocument)
	defer sub.Close()

	if sub.Changed() {
		t.Fatal("fresh subscription must start observed")
	}
	bus.Flip(TopicDocument)
	if !sub.Changed() {
		t.Fatal("expected Changed after flip of watched topic")
	}
	sub.Ack()
	if sub.Changed() {
		t.Fatal("expected no change after Ack")
	}
}

func TestUnwatchedTopicDoesNotWake(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicCollections)
	defer sub.Close()

	bus.Flip(TopicDocuments, TopicDocument)
	if sub.Changed() {
		t.Fatal("flip of unrelated topics must not mark subscription changed")
	}
	select {
	case <-sub.Notify():
		t.Fatal("unexpected wakeup")
	default:
	}
}

func TestNotifyCoalesces(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicDocuments)
	defer sub.Close()

	bus.Flip(TopicDocuments)
	bus.Flip(TopicDocuments)
	bus.Flip(TopicDocuments)

	select {
	case <-sub.Notify():
	default:
		t.Fatal("expected at least one wakeup")
	}
	select {
	case <-sub.Notify():
		t.Fatal("burst of flips must coalesce into one wakeup")
	default:
	}
}

// A failed mutation never reaches Flip, so the token must stay put. This
// mirrors the coordinator contract: flip only after server success.
func TestNoFlipNoChange(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicDocuments)
	defer sub.Close()

	before := bus.Version(TopicDocuments)
	if bus.Version(TopicDocuments) != before || sub.Changed() {
		t.Fatal("token moved without a flip")
	}
}
