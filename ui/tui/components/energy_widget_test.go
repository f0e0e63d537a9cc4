package components

import (
	"math"
	"testing"
)

func TestEnergyWidgetWindow(t *testing.T) {
	w := NewEnergyWidget(20, 6, 3)
	for _, v := range []float64{5, 4, 3, 2} {
		w.Push(v)
	}
	if len(w.History) != 3 {
		t.Fatalf("Expected history capped at 3, got %d", len(w.History))
	}
	if w.History[0] != 4 {
		t.Errorf("Expected oldest sample dropped, got %v", w.History)
	}
	if w.Peak() != 4 {
		t.Errorf("Expected peak 4, got %v", w.Peak())
	}
	if w.Last() != 2 {
		t.Errorf("Expected last 2, got %v", w.Last())
	}
}

func TestEnergyWidgetSanitizes(t *testing.T) {
	w := NewEnergyWidget(20, 6, 1)
	if w.Capacity != 2 {
		t.Errorf("Expected capacity raised to 2, got %d", w.Capacity)
	}
	w.Push(math.NaN())
	w.Push(-3)
	for _, v := range w.History {
		if v != 0 {
			t.Errorf("Expected invalid samples stored as 0, got %v", v)
		}
	}
}

func TestEnergyWidgetReset(t *testing.T) {
	w := NewEnergyWidget(20, 6, 10)
	w.Push(1)
	w.Push(2)
	w.Reset()
	if len(w.History) != 0 || w.Last() != 0 {
		t.Errorf("Expected empty history after reset, got %v", w.History)
	}
	if w.View() == "" {
		t.Error("Expected a rendered chart even when empty")
	}
}
