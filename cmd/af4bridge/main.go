// Command af4bridge is the Aerofly FS 4 external DLL. Build it with
//
//	go build -buildmode=c-shared -o FinalCallATC_AF4_bridge.dll ./cmd/af4bridge
//
// The host loads the library and calls the exported functions in exports.go.
package main

func main() {}
