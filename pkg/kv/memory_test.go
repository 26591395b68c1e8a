package kv

import (
	"bytes"
	"fmt"
	"testing"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get([]byte("a"))
	if err != nil || !ok || string(v) != "1" {
		t.Fatalf("Get(a) = %s, %v, %v", v, ok, err)
	}

	if err := s.Delete([]byte("a")); err != nil {
		t.Fatal(err)
	}
	_, ok, _ = s.Get([]byte("a"))
	if ok {
		t.Fatal("a should be deleted")
	}
}

func TestMemoryStore_ScanAscendingInclusiveExclusive(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 10; i++ {
		s.Set([]byte(fmt.Sprintf("k%02d", i)), []byte{byte(i)})
	}

	pairs, err := s.Scan(RangeBetween([]byte("k02"), false, []byte("k05"), false))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"k02", "k03", "k04", "k05"}
	assertKeys(t, pairs, want)

	pairs, err = s.Scan(RangeBetween([]byte("k02"), true, []byte("k05"), true))
	if err != nil {
		t.Fatal(err)
	}
	assertKeys(t, pairs, []string{"k03", "k04"})
}

func TestMemoryStore_ScanReverse(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 5; i++ {
		s.Set([]byte(fmt.Sprintf("k%02d", i)), []byte{byte(i)})
	}
	pairs, err := s.ScanReverse(RangeAll())
	if err != nil {
		t.Fatal(err)
	}
	assertKeys(t, pairs, []string{"k04", "k03", "k02", "k01", "k00"})
}

func TestMemoryStore_ScanPrefix(t *testing.T) {
	s := NewMemoryStore()
	s.Set([]byte("row:a:1"), []byte("1"))
	s.Set([]byte("row:a:2"), []byte("2"))
	s.Set([]byte("row:b:1"), []byte("3"))

	pairs, err := s.ScanPrefix([]byte("row:a:"))
	if err != nil {
		t.Fatal(err)
	}
	assertKeys(t, pairs, []string{"row:a:1", "row:a:2"})
}

func TestMemoryStore_ScanPrefixAtByteMax(t *testing.T) {
	s := NewMemoryStore()
	s.Set([]byte{0xFF, 0xFF, 0x01}, []byte("a"))
	s.Set([]byte{0xFF, 0xFF, 0x02}, []byte("b"))
	s.Set([]byte{0x01}, []byte("c"))

	pairs, err := s.ScanPrefix([]byte{0xFF, 0xFF})
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 {
		t.Fatalf("ScanPrefix(FF FF) = %d pairs, want 2", len(pairs))
	}
}

func assertKeys(t *testing.T, pairs []Pair, want []string) {
	t.Helper()
	if len(pairs) != len(want) {
		t.Fatalf("got %d pairs, want %d (%v)", len(pairs), len(want), pairs)
	}
	for i, w := range want {
		if !bytes.Equal(pairs[i].Key, []byte(w)) {
			t.Fatalf("pairs[%d].Key = %s, want %s", i, pairs[i].Key, w)
		}
	}
}
