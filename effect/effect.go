package effect

// Default shader entry points expected in every effect source.
const (
	DefaultVertexEntry   = "vs_main"
	DefaultFragmentEntry = "fs_main"
)

// Effect is a compiled shader program identified by name.
type Effect struct {
	Name          string
	Source        string
	SPIRV         []uint32
	VertexEntry   string
	FragmentEntry string
}

// EffectName returns the name of e, or "" for a nil effect.
func (e *Effect) EffectName() string {
	if e == nil {
		return ""
	}
	return e.Name
}
