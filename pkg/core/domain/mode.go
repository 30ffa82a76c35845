package domain

// Mode names the storage backend that served an operation
type Mode string

const (
	ModeFile           Mode = "file"
	ModeSQLite         Mode = "sqlite"
	ModeMemory         Mode = "memory"
	ModeMemoryFallback Mode = "memory-fallback"
)

// Durable reports whether changes made in this mode survive a restart.
func (m Mode) Durable() bool {
	return m == ModeFile || m == ModeSQLite
}
