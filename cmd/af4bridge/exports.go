//go:build cgo

package main

/*
#include <stdbool.h>
#include <stdint.h>
*/
import "C"

import "unsafe"

//export Aerofly_FS_4_External_DLL_GetInterfaceVersion
func Aerofly_FS_4_External_DLL_GetInterfaceVersion() C.int {
	return C.int(InterfaceVersion)
}

//export Aerofly_FS_4_External_DLL_Init
func Aerofly_FS_4_External_DLL_Init(_ unsafe.Pointer) C.bool {
	return C.bool(host.init())
}

//export Aerofly_FS_4_External_DLL_Shutdown
func Aerofly_FS_4_External_DLL_Shutdown() {
	host.shutdown()
}

//export Aerofly_FS_4_External_DLL_Update
func Aerofly_FS_4_External_DLL_Update(
	deltaTime C.double,
	received *C.uint8_t,
	receivedSize C.uint32_t,
	receivedCount C.uint32_t,
	sent *C.uint8_t,
	sentSize *C.uint32_t,
	sentCount *C.uint32_t,
	sentMax C.uint32_t,
) {
	var in, out []byte
	if received != nil && receivedSize > 0 {
		in = unsafe.Slice((*byte)(unsafe.Pointer(received)), int(receivedSize))
	}
	if sent != nil && sentMax > 0 {
		out = unsafe.Slice((*byte)(unsafe.Pointer(sent)), int(sentMax))
	}
	res := host.update(float64(deltaTime), in, uint32(receivedCount), out)
	if sentSize != nil {
		*sentSize = C.uint32_t(res.SentBytes)
	}
	if sentCount != nil {
		*sentCount = C.uint32_t(res.SentCount)
	}
}
