package util

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	return maps.Keys(m)
}

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	slices.Sort(keys)
	return keys
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Ordered](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Clamp[A constraints.Ordered](v, lo, hi A) A {
	return Max(lo, Min(v, hi))
}

// MapRange linearly re-maps v from [inLo, inHi] onto [outLo, outHi] without clamping.
func MapRange[A constraints.Float](v, inLo, inHi, outLo, outHi A) A {
	if inHi == inLo {
		return outLo
	}
	return outLo + (v-inLo)*(outHi-outLo)/(inHi-inLo)
}

// Set builds a membership map from a slice of names.
func Set[A comparable](items []A) map[A]struct{} {
	res := make(map[A]struct{}, len(items))
	for _, v := range items {
		res[v] = struct{}{}
	}
	return res
}
