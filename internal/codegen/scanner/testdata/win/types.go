package win

import "golang.org/x/sys/windows"

const MaxPath = 260

const (
	kindA = iota
	kindB
	GUIDSize = 16
)

//unmanaged:chars MaxPath
type Path struct {
	PathFixedChars
}

//unmanaged:buffer GUIDSize byte
type GUIDBytes struct {
	GUIDBytesFixedBuffer
}

//unmanaged:buffer 2 windows.GUID
type GUIDPair struct {
	GUIDPairFixedBuffer
}
