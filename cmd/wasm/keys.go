package main

import (
	"fmt"

	"github.com/smallyu/go-gost/pkg/gost"
)

// keyStore maps opaque handles to private keys held on the Go side. Each
// stored key gets a fresh handle, even when the same key is imported twice.
type keyStore struct {
	next uint64
	keys map[string]*gost.PrivateKey
}

func newKeyStore() *keyStore {
	return &keyStore{keys: make(map[string]*gost.PrivateKey)}
}

func (s *keyStore) put(prv *gost.PrivateKey) string {
	s.next++
	handle := fmt.Sprintf("key-%d", s.next)
	s.keys[handle] = prv
	return handle
}

func (s *keyStore) get(handle string) (*gost.PrivateKey, bool) {
	prv, ok := s.keys[handle]
	return prv, ok
}

// release zeroizes and forgets the key behind handle.
func (s *keyStore) release(handle string) bool {
	prv, ok := s.keys[handle]
	if !ok {
		return false
	}
	prv.Zeroize()
	delete(s.keys, handle)
	return true
}
