//go:build !(js && wasm)

package main

import "fmt"

func main() {
	fmt.Println("GoGOST is only available in a js/wasm build")
}
