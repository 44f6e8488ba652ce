package core

import (
	"math"
	"testing"
)

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		expected bool
	}{
		{"Through center", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true},
		{"Miss above", NewRay(NewVec3(0, 2, -5), NewVec3(0, 0, 1)), false},
		{"Parallel inside slab", NewRay(NewVec3(0.5, 0.5, -5), NewVec3(0, 0, 1)), true},
		{"Parallel outside slab", NewRay(NewVec3(1.5, 0, -5), NewVec3(0, 0, 1)), false},
		{"Diagonal", NewRay(NewVec3(-5, -5, -5), NewVec3(1, 1, 1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, 0, math.Inf(1)); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAABB_UnionWithEmpty(t *testing.T) {
	box := NewAABB(NewVec3(-1, 0, 2), NewVec3(3, 4, 5))
	if u := EmptyAABB().Union(box); u != box {
		t.Errorf("Expected empty to be the union identity, got %v", u)
	}
	if EmptyAABB().IsValid() {
		t.Error("Expected empty box to be invalid")
	}
}

func TestAABB_Infinite(t *testing.T) {
	if !InfiniteAABB().IsInfinite() {
		t.Error("Expected infinite box to report infinite")
	}
	if NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1)).IsInfinite() {
		t.Error("Expected unit box to be finite")
	}
	if !InfiniteAABB().Hit(NewRay(NewVec3(100, 100, 100), NewVec3(1, 0, 0)), 0, math.Inf(1)) {
		t.Error("Expected any ray to hit the infinite box")
	}
}

func TestAABB_Corners(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 2, 3))
	corners := box.Corners()

	seen := make(map[Vec3]bool)
	for _, c := range corners {
		seen[c] = true
	}
	if len(seen) != 8 {
		t.Errorf("Expected 8 distinct corners, got %d", len(seen))
	}
	if NewAABBFromPoints(corners[:]...) != box {
		t.Errorf("Expected corners to rebuild the box")
	}
}

func TestAABB_LongestAxis(t *testing.T) {
	tests := []struct {
		box      AABB
		expected int
	}{
		{NewAABB(Vec3{}, NewVec3(3, 1, 1)), 0},
		{NewAABB(Vec3{}, NewVec3(1, 3, 1)), 1},
		{NewAABB(Vec3{}, NewVec3(1, 1, 3)), 2},
	}
	for _, tt := range tests {
		if got := tt.box.LongestAxis(); got != tt.expected {
			t.Errorf("Expected axis %d for %v, got %d", tt.expected, tt.box, got)
		}
	}
}

func TestAABB_Contains(t *testing.T) {
	outer := NewAABB(NewVec3(-2, -2, -2), NewVec3(2, 2, 2))
	inner := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	if !outer.Contains(inner) {
		t.Error("Expected outer to contain inner")
	}
	if inner.Contains(outer) {
		t.Error("Expected inner not to contain outer")
	}
}
