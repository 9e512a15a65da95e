package resources

import (
	"net/url"
	"testing"
)

func TestAllIsACopy(t *testing.T) {
	list := All()
	if len(list) != 19 {
		t.Fatalf("expected 19 topics, got %d", len(list))
	}
	list[0].Name = "changed"
	if All()[0].Name != "Basics of Programming" {
		t.Fatal("All must not expose the backing list")
	}
}

func TestTopicsHaveValidLinksAndOrderedLevels(t *testing.T) {
	rank := map[Level]int{Beginner: 0, Intermediate: 1, Advanced: 2}
	prev := 0
	for _, topic := range All() {
		u, err := url.Parse(topic.Link)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			t.Errorf("bad link for %s: %q", topic.Name, topic.Link)
		}
		r, ok := rank[topic.Level]
		if !ok || r < prev {
			t.Errorf("topic %s out of level order", topic.Name)
		}
		prev = r
	}
}

func TestByLevel(t *testing.T) {
	total := len(ByLevel(Beginner)) + len(ByLevel(Intermediate)) + len(ByLevel(Advanced))
	if total != len(All()) {
		t.Fatalf("levels cover %d topics, want %d", total, len(All()))
	}
	if len(ByLevel("expert")) != 0 {
		t.Fatal("unknown level should be empty")
	}
}
