package validate

import (
	"strings"
	"testing"

	"barterly/internal/domain"
)

func TestItemName(t *testing.T) {
	if _, ok := ItemName("   "); ok {
		t.Fatal("blank name accepted")
	}
	if got, ok := ItemName("  Game Boy  "); !ok || got != "Game Boy" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
	if _, ok := ItemName(strings.Repeat("ж", 30)); !ok {
		t.Fatal("30 runes should be accepted")
	}
	if _, ok := ItemName(strings.Repeat("a", 31)); ok {
		t.Fatal("31 chars accepted")
	}
}

func TestDescription(t *testing.T) {
	if _, ok := Description(""); !ok {
		t.Fatal("empty description should be allowed")
	}
	if _, ok := Description(strings.Repeat("x", 151)); ok {
		t.Fatal("151 chars accepted")
	}
}

func TestCondition(t *testing.T) {
	if c, ok := Condition(" NEW "); !ok || c != domain.ConditionNew {
		t.Fatalf("got %q ok=%v", c, ok)
	}
	for _, s := range []string{"", "unset", "broken"} {
		if _, ok := Condition(s); ok {
			t.Fatalf("condition %q accepted", s)
		}
	}
}

func TestDecisionAndStatusFilter(t *testing.T) {
	if d, ok := Decision("Accept"); !ok || d != domain.DecisionAccept {
		t.Fatalf("got %v ok=%v", d, ok)
	}
	if _, ok := Decision("maybe"); ok {
		t.Fatal("unknown decision accepted")
	}
	if f, ok := StatusFilter(""); !ok || f != domain.FilterAll {
		t.Fatalf("empty filter: %+v ok=%v", f, ok)
	}
	if f, ok := StatusFilter("rejected"); !ok || f.Status != domain.StatusRejected {
		t.Fatalf("rejected filter: %+v ok=%v", f, ok)
	}
	if _, ok := StatusFilter("closed"); ok {
		t.Fatal("unknown status accepted")
	}
}

func TestPassword(t *testing.T) {
	if !Password("Passw0rd!") {
		t.Fatal("valid password rejected")
	}
	if Password("password") {
		t.Fatal("weak password accepted")
	}
}
