package win

//unmanaged:chars 1
type TestOnly struct{}
