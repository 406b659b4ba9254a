package reactions

import "testing"

func TestBump(t *testing.T) {
	counts := Bump(nil, "👍")
	if counts["👍"] != 1 {
		t.Fatalf("counts = %v", counts)
	}
	counts = Bump(counts, "👍")
	counts = Bump(counts, "❤️")
	if counts["👍"] != 2 || counts["❤️"] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestBumpBareHeart(t *testing.T) {
	// U+2764 without the variation selector is its own counter key.
	counts := Bump(nil, "❤")
	counts = Bump(counts, "❤")
	if counts["❤"] != 2 {
		t.Fatalf("counts = %v", counts)
	}
	if counts["❤️"] != 0 {
		t.Fatalf("styled variant bumped: %v", counts)
	}
}

func TestValid(t *testing.T) {
	for _, emoji := range []string{"❤️", "❤", "👍", "🤡", "🏳️‍🌈"} {
		if !Valid(emoji) {
			t.Fatalf("Valid(%q) = false", emoji)
		}
	}
	if Valid("") {
		t.Fatal("empty reaction accepted")
	}
	if Valid(string(make([]byte, 100))) {
		t.Fatal("oversized reaction accepted")
	}
}
