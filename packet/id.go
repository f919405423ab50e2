package packet

const (
	IDLaunchFirework uint64 = iota + 1
	IDPlayNote
)
