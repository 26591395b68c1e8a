package kv

var _ Store = (*MemoryStore)(nil)
