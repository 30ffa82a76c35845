package domain

// Environment is the result of probing the runtime
type Environment struct {
	IsServerless       bool              `json:"is_serverless"`
	HasWritePermission bool              `json:"has_write_permission"`
	Cwd                string            `json:"current_working_directory"`
	ProbeDir           string            `json:"probe_directory"`
	GoVersion          string            `json:"go_version"`
	Platform           string            `json:"platform"`
	Variables          map[string]string `json:"environment"`
}

// RecommendedMode is memory when the runtime is serverless or read-only.
func (e Environment) RecommendedMode() Mode {
	if e.IsServerless || !e.HasWritePermission {
		return ModeMemory
	}
	return ModeFile
}
