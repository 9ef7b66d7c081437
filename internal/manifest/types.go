package manifest

// FileName is the manifest file every extension directory carries.
const FileName = "extkit.toml"

// Defaults applied when a manifest omits the field.
const (
	DefaultEntryPoint = "main.js"
	DefaultVersion    = "0.1.0"
)

// Runtime names accepted in the runtime field.
const (
	RuntimeJS   = "js"
	RuntimeNode = "node"
)

// ValidRuntimes contains all valid runtime values.
var ValidRuntimes = []string{
	RuntimeJS,
	RuntimeNode,
}

// Manifest is the parsed form of an extension's extkit.toml.
type Manifest struct {
	Name        string
	Description string
	Version     string
	EntryPoint  string
	Runtime     string
	Permissions Permissions
}

// New returns the manifest scaffolded for a fresh extension: no permissions,
// an empty description, and the default version, entry point, and runtime.
func New(name string) Manifest {
	return Manifest{
		Name:       name,
		Version:    DefaultVersion,
		EntryPoint: DefaultEntryPoint,
		Runtime:    RuntimeJS,
	}
}

// Equal reports whether two manifests are structurally identical.
func (m Manifest) Equal(other Manifest) bool {
	return m.Name == other.Name &&
		m.Description == other.Description &&
		m.Version == other.Version &&
		m.EntryPoint == other.EntryPoint &&
		m.Runtime == other.Runtime &&
		m.Permissions.Equal(other.Permissions)
}

// rawManifest mirrors the TOML document. Pointer slices keep an absent key
// apart from an empty array.
type rawManifest struct {
	Name        string          `toml:"name"`
	Description string          `toml:"description,omitempty"`
	Version     string          `toml:"version,omitempty"`
	EntryPoint  string          `toml:"entry_point,omitempty"`
	Runtime     string          `toml:"runtime,omitempty"`
	Permissions *rawPermissions `toml:"permissions,omitempty"`
}

type rawPermissions struct {
	Read  *[]string `toml:"read,omitempty"`
	Write *[]string `toml:"write,omitempty"`
	Run   *[]string `toml:"run,omitempty"`
	Net   *[]string `toml:"net,omitempty"`
}
