//go:build js && wasm

package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-gost/pkg/gost"
)

// Private keys live on the Go side and are referenced from JS by handle.
var keys = newKeyStore()

func main() {
	c := make(chan struct{}, 0)

	fmt.Println("Go GOST WASM Initialized")

	js.Global().Set("GoGOST", map[string]interface{}{
		"GenerateKey":        js.FuncOf(GenerateKey),
		"ImportKey":          js.FuncOf(ImportKey),
		"ReleaseKey":         js.FuncOf(ReleaseKey),
		"Hash":               js.FuncOf(Hash),
		"Sign":               js.FuncOf(Sign),
		"Verify":             js.FuncOf(Verify),
		"DeriveSharedSecret": js.FuncOf(DeriveSharedSecret),
	})

	<-c
}

type keyResponse struct {
	Handle    string `json:"handle"`
	ParamSet  string `json:"paramSet"`
	PublicKey string `json:"publicKey"`
}

func storeKey(prv *gost.PrivateKey) interface{} {
	handle := keys.put(prv)
	resp, _ := json.Marshal(keyResponse{
		Handle:    handle,
		ParamSet:  prv.Params().Name,
		PublicKey: hex.EncodeToString(prv.Public().Bytes()),
	})
	return string(resp)
}

// GenerateKey creates a key pair.
// Arguments:
// 0: parameter set name
// Returns:
// JSON {handle, paramSet, publicKey}
func GenerateKey(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (paramSet)"
	}
	params, err := gost.ParamsByName(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	prv, err := gost.GenerateKey(params, rand.Reader)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return storeKey(prv)
}

// ImportKey loads a big-endian private scalar.
// Arguments:
// 0: parameter set name
// 1: hex private key
func ImportKey(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (paramSet, privateKeyHex)"
	}
	params, err := gost.ParamsByName(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	raw, err := hex.DecodeString(args[1].String())
	if err != nil {
		return fmt.Sprintf("error: invalid hex: %v", err)
	}
	prv, err := gost.ParsePrivateKey(params, raw)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return storeKey(prv)
}

// ReleaseKey wipes and forgets a key handle.
func ReleaseKey(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (handle)"
	}
	return keys.release(args[0].String())
}

// Hash returns the hex GOST R 34.11-2012 digest of a hex message.
// Arguments:
// 0: output size in bits (256 or 512)
// 1: hex message
func Hash(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (bits, messageHex)"
	}
	msg, err := hex.DecodeString(args[1].String())
	if err != nil {
		return fmt.Sprintf("error: invalid hex: %v", err)
	}
	h := gost.NewHash256()
	if args[0].Int() == 512 {
		h = gost.NewHash512()
	}
	h.Write(msg)
	return hex.EncodeToString(h.Sum(nil))
}

// Sign hashes a hex message and signs it.
// Arguments:
// 0: key handle
// 1: hex message
// Returns:
// hex s ‖ r
func Sign(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (handle, messageHex)"
	}
	prv, ok := keys.get(args[0].String())
	if !ok {
		return "error: key not found"
	}
	msg, err := hex.DecodeString(args[1].String())
	if err != nil {
		return fmt.Sprintf("error: invalid hex: %v", err)
	}
	sig, err := gost.NewSigner(prv).HashAndSign(msg)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return hex.EncodeToString(sig)
}

// Verify checks a signature made by Sign.
// Arguments:
// 0: parameter set name
// 1: hex public key
// 2: hex message
// 3: hex signature
// Returns:
// bool or error string
func Verify(this js.Value, args []js.Value) interface{} {
	if len(args) != 4 {
		return "error: expected 4 arguments (paramSet, publicKeyHex, messageHex, signatureHex)"
	}
	params, err := gost.ParamsByName(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	var bufs [3][]byte
	for i := range bufs {
		if bufs[i], err = hex.DecodeString(args[i+1].String()); err != nil {
			return fmt.Sprintf("error: invalid hex: %v", err)
		}
	}
	pub, err := gost.ParsePublicKey(params, bufs[0])
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	ok, err := pub.HashAndVerify(bufs[1], bufs[2])
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return ok
}

// DeriveSharedSecret agrees a 32-byte secret with a peer public key.
// Arguments:
// 0: key handle
// 1: hex peer public key
func DeriveSharedSecret(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (handle, peerPublicKeyHex)"
	}
	prv, ok := keys.get(args[0].String())
	if !ok {
		return "error: key not found"
	}
	raw, err := hex.DecodeString(args[1].String())
	if err != nil {
		return fmt.Sprintf("error: invalid hex: %v", err)
	}
	peer, err := gost.ParsePublicKey(prv.Params(), raw)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	secret, err := prv.DeriveSharedSecret(peer)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return hex.EncodeToString(secret)
}
