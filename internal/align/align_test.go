package align

import (
	"testing"

	"gradient-relighter/internal/frame"
)

func TestIdentity_ReturnsCopy(t *testing.T) {
	ref := frame.NewImage(2, 2)
	target := frame.NewImage(2, 2)
	target.Set(1, 0, 2, 0.75)

	got := Identity{}.Align(ref, target)
	if got.At(1, 0, 2) != 0.75 {
		t.Fatalf("expected 0.75, got %f", got.At(1, 0, 2))
	}
	got.Set(1, 0, 2, 0)
	if target.At(1, 0, 2) != 0.75 {
		t.Error("Align aliased the target buffer")
	}
}
